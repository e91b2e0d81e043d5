package types

import "time"

// Category is a top-level grouping. It owns Notes by back-reference:
// a Note names its Category through Note.CategoryID.
type Category struct {
	CategoryID string    `json:"category_id"` // UUID v7, generated on creation.
	Name       string    `json:"name"`        // Display name (required, non-empty).
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Rename replaces the category name.
// Returns ErrInvalidName if name is empty.
func (c *Category) Rename(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}
