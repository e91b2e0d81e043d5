package types

import "time"

// Note is a titled text body owned by one Category. CategoryID is not
// checked against the categories table; a dangling reference is allowed.
type Note struct {
	NoteID     string    `json:"note_id"`     // UUID v7, generated on creation.
	Title      string    `json:"title"`       // Required, non-empty.
	Body       string    `json:"body"`        // Required, non-empty.
	CategoryID string    `json:"category_id"` // Owning category (required at creation).
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Edit replaces title and body, leaving the owning category untouched.
func (n *Note) Edit(title, body string) error {
	if title == "" {
		return ErrInvalidName
	}
	if body == "" {
		return ErrInvalidContent
	}
	n.Title = title
	n.Body = body
	n.UpdatedAt = time.Now()
	return nil
}
