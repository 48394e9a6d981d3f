package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTitle_TrimsWhitespace(t *testing.T) {
	title, err := NewTitle("  buy milk  ")

	require.NoError(t, err)
	assert.Equal(t, "buy milk", title.String())
}

func TestNewTitle_EmptyRejected(t *testing.T) {
	_, err := NewTitle("   ")
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestNewTitle_MaxLength(t *testing.T) {
	_, err := NewTitle(strings.Repeat("a", MaxTitleLength))
	require.NoError(t, err)

	_, err = NewTitle(strings.Repeat("a", MaxTitleLength+1))
	assert.ErrorIs(t, err, ErrTitleTooLong)
}

func TestNewCategoryName_MaxLength(t *testing.T) {
	_, err := NewCategoryName(strings.Repeat("x", MaxCategoryNameLength))
	require.NoError(t, err)

	_, err = NewCategoryName(strings.Repeat("x", MaxCategoryNameLength+1))
	assert.ErrorIs(t, err, ErrCategoryNameTooLong)

	_, err = NewCategoryName("")
	assert.ErrorIs(t, err, ErrCategoryNameRequired)
}

func TestNewColorHex_AcceptsShortAndLongForm(t *testing.T) {
	for _, valid := range []string{"#0078D4", "#abc", "#FFF", "#00ff00"} {
		got, err := NewColorHex(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, valid, got)
	}
}

func TestNewColorHex_RejectsMalformed(t *testing.T) {
	for _, invalid := range []string{"", "0078D4", "#12345", "#GGHHII", "#12", "blue"} {
		_, err := NewColorHex(invalid)
		assert.ErrorIs(t, err, ErrInvalidColorHex, invalid)
	}
}

func TestNewRecurrenceType(t *testing.T) {
	rt, err := NewRecurrenceType("Weekly")
	require.NoError(t, err)
	assert.Equal(t, RecurrenceWeekly, rt)

	_, err = NewRecurrenceType("fortnightly")
	assert.ErrorIs(t, err, ErrInvalidRecurrenceType)
}

func TestStepLimitError(t *testing.T) {
	err := &StepLimitError{Limit: 100}

	assert.ErrorIs(t, err, ErrStepLimitExceeded)
	assert.Equal(t, "task cannot have more than 100 steps", err.Error())
}
