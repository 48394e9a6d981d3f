package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type innerConfig struct {
	Name string `env:"TEST_INNER_NAME"`
}

type outerConfig struct {
	Host    string        `env:"TEST_HOST"`
	Port    int           `env:"TEST_PORT"`
	Debug   bool          `env:"TEST_DEBUG"`
	Timeout time.Duration `env:"TEST_TIMEOUT"`
	Inner   innerConfig
}

func TestLoad_PopulatesSupportedTypes(t *testing.T) {
	t.Setenv("TEST_HOST", "localhost")
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_DEBUG", "true")
	t.Setenv("TEST_TIMEOUT", "90s")
	t.Setenv("TEST_INNER_NAME", "nested")

	var cfg outerConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "nested", cfg.Inner.Name)
}

func TestLoad_UnsetVariablesLeaveZeroValues(t *testing.T) {
	var cfg outerConfig
	require.NoError(t, Load(&cfg))

	assert.Empty(t, cfg.Host)
	assert.Zero(t, cfg.Port)
	assert.False(t, cfg.Debug)
}

func TestLoad_InvalidValueNamesVariable(t *testing.T) {
	t.Setenv("TEST_PORT", "not-a-number")

	var cfg outerConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_PORT")
}

func TestLoad_InvalidDurationRejected(t *testing.T) {
	t.Setenv("TEST_TIMEOUT", "ninety seconds")

	var cfg outerConfig
	assert.Error(t, Load(&cfg))
}

func TestLoad_RequiresStructPointer(t *testing.T) {
	var cfg outerConfig
	assert.Error(t, Load(cfg))

	var s string
	assert.Error(t, Load(&s))
}

var errBadInner = errors.New("inner validation failed")

type validatedInner struct {
	Value string `env:"TEST_VALIDATED_VALUE"`
}

func (c *validatedInner) Validate() error {
	if c.Value == "bad" {
		return errBadInner
	}
	return nil
}

type validatedOuter struct {
	Inner validatedInner
}

func TestLoad_NestedValidatorInvoked(t *testing.T) {
	t.Setenv("TEST_VALIDATED_VALUE", "bad")

	var cfg validatedOuter
	assert.ErrorIs(t, Load(&cfg), errBadInner)

	t.Setenv("TEST_VALIDATED_VALUE", "good")
	assert.NoError(t, Load(&cfg))
}
