package domain

import "strings"

// Field length limits, matching the persisted schema.
const (
	MaxTitleLength        = 255
	MaxCategoryNameLength = 100
)

// Title is a validated task or step title (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > MaxTitleLength {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// CategoryName is a validated category name (1-100 characters).
type CategoryName struct {
	value string
}

// NewCategoryName creates a new CategoryName, validating the input.
func NewCategoryName(s string) (CategoryName, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return CategoryName{}, ErrCategoryNameRequired
	}

	if len(s) > MaxCategoryNameLength {
		return CategoryName{}, ErrCategoryNameTooLong
	}

	return CategoryName{value: s}, nil
}

// String returns the name value.
func (n CategoryName) String() string {
	return n.value
}

// NewColorHex validates a hex color of the form #RGB or #RRGGBB.
func NewColorHex(s string) (string, error) {
	if len(s) != 4 && len(s) != 7 {
		return "", ErrInvalidColorHex
	}
	if s[0] != '#' {
		return "", ErrInvalidColorHex
	}
	for _, c := range s[1:] {
		if !isHexDigit(c) {
			return "", ErrInvalidColorHex
		}
	}
	return s, nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
