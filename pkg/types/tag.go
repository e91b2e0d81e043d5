package types

import (
	"slices"
	"time"
)

// Tag is a labeled, color-coded marker. The tag owns the many-to-many
// relationship with notes: NoteIDs is kept in insertion order and may hold
// the same note more than once.
type Tag struct {
	TagID   string   `json:"tag_id"` // UUID v7, generated on creation.
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	NoteIDs []string `json:"note_ids"`

	// Version is the optimistic concurrency token. It starts at 1 and the
	// backend increments it on every successful write. A write carrying a
	// stale Version fails with ErrVersionConflict.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddNote appends noteID to the tag. Duplicates are permitted.
func (t *Tag) AddNote(noteID string) {
	t.NoteIDs = append(t.NoteIDs, noteID)
	t.UpdatedAt = time.Now()
}

// RemoveNote drops every occurrence of noteID and returns how many were
// removed. The relative order of the remaining ids is preserved.
func (t *Tag) RemoveNote(noteID string) int {
	before := len(t.NoteIDs)
	kept := make([]string, 0, before)
	for _, id := range t.NoteIDs {
		if id != noteID {
			kept = append(kept, id)
		}
	}
	t.NoteIDs = kept
	removed := before - len(kept)
	if removed > 0 {
		t.UpdatedAt = time.Now()
	}
	return removed
}

// HasNote reports whether noteID is in the tag's note list.
func (t *Tag) HasNote(noteID string) bool {
	return slices.Contains(t.NoteIDs, noteID)
}

// Relabel replaces name and color, leaving the note list untouched.
func (t *Tag) Relabel(name, color string) error {
	if name == "" {
		return ErrInvalidName
	}
	if color == "" {
		return ErrInvalidColor
	}
	t.Name = name
	t.Color = color
	t.UpdatedAt = time.Now()
	return nil
}
