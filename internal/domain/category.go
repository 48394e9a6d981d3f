package domain

import "time"

// Category is a named, colored tag owned by one user.
// (OwnerID, Name) is unique per owner.
type Category struct {
	ID        string
	Name      string
	ColorHex  string
	OwnerID   string
	CreatedAt time.Time
}

// DefaultColorHex is applied when a category is created without a color.
const DefaultColorHex = "#0078D4"
