package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// timeLayout is fixed width so that text timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Record structures double as sqlx scan targets and JSONL line format.

// Column lists in table order; record field order matches.
var (
	categoryColumns = []string{"category_id", "category_name", "created_at", "updated_at"}
	noteColumns     = []string{"note_id", "note_title", "note_body", "category_id", "created_at", "updated_at"}
	tagColumns      = []string{"tag_id", "tag_name", "tag_color", "version", "created_at", "updated_at"}
	tagNoteColumns  = []string{"tag_id", "position", "note_id"}
)

// categoryRecord represents a category row and a line in categories.jsonl.
type categoryRecord struct {
	CategoryID string `db:"category_id" json:"category_id"`
	Name       string `db:"category_name" json:"category_name"`
	CreatedAt  string `db:"created_at" json:"created_at"`
	UpdatedAt  string `db:"updated_at" json:"updated_at"`
}

func newCategoryRecord(c *types.Category) categoryRecord {
	return categoryRecord{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

func (r categoryRecord) values() []any {
	return []any{r.CategoryID, r.Name, r.CreatedAt, r.UpdatedAt}
}

func (r categoryRecord) entity() (*types.Category, error) {
	created, updated, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", r.CategoryID, err)
	}
	return &types.Category{
		CategoryID: r.CategoryID,
		Name:       r.Name,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

// noteRecord represents a note row and a line in notes.jsonl.
type noteRecord struct {
	NoteID     string `db:"note_id" json:"note_id"`
	Title      string `db:"note_title" json:"note_title"`
	Body       string `db:"note_body" json:"note_body"`
	CategoryID string `db:"category_id" json:"category_id"`
	CreatedAt  string `db:"created_at" json:"created_at"`
	UpdatedAt  string `db:"updated_at" json:"updated_at"`
}

func newNoteRecord(n *types.Note) noteRecord {
	return noteRecord{
		NoteID:     n.NoteID,
		Title:      n.Title,
		Body:       n.Body,
		CategoryID: n.CategoryID,
		CreatedAt:  formatTime(n.CreatedAt),
		UpdatedAt:  formatTime(n.UpdatedAt),
	}
}

func (r noteRecord) values() []any {
	return []any{r.NoteID, r.Title, r.Body, r.CategoryID, r.CreatedAt, r.UpdatedAt}
}

func (r noteRecord) entity() (*types.Note, error) {
	created, updated, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", r.NoteID, err)
	}
	return &types.Note{
		NoteID:     r.NoteID,
		Title:      r.Title,
		Body:       r.Body,
		CategoryID: r.CategoryID,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

// tagRecord represents a tag row and a line in tags.jsonl. NoteIDs lives in
// tag_notes in the database and inline in the JSONL line.
type tagRecord struct {
	TagID     string   `db:"tag_id" json:"tag_id"`
	Name      string   `db:"tag_name" json:"tag_name"`
	Color     string   `db:"tag_color" json:"tag_color"`
	Version   int64    `db:"version" json:"version"`
	CreatedAt string   `db:"created_at" json:"created_at"`
	UpdatedAt string   `db:"updated_at" json:"updated_at"`
	NoteIDs   []string `db:"-" json:"note_ids"`
}

func newTagRecord(t *types.Tag) tagRecord {
	return tagRecord{
		TagID:     t.TagID,
		Name:      t.Name,
		Color:     t.Color,
		Version:   t.Version,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
		NoteIDs:   t.NoteIDs,
	}
}

func (r tagRecord) values() []any {
	return []any{r.TagID, r.Name, r.Color, r.Version, r.CreatedAt, r.UpdatedAt}
}

func (r tagRecord) entity() (*types.Tag, error) {
	created, updated, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("tag %s: %w", r.TagID, err)
	}
	noteIDs := r.NoteIDs
	if noteIDs == nil {
		noteIDs = []string{}
	}
	return &types.Tag{
		TagID:     r.TagID,
		Name:      r.Name,
		Color:     r.Color,
		NoteIDs:   noteIDs,
		Version:   r.Version,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// tagNoteRecord is one row of tag_notes.
type tagNoteRecord struct {
	TagID    string `db:"tag_id"`
	Position int    `db:"position"`
	NoteID   string `db:"note_id"`
}

func parseTimestamps(createdAt, updatedAt string) (time.Time, time.Time, error) {
	created, err := parseTime(createdAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return created, updated, nil
}
