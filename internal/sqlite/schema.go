package sqlite

// Schema DDL for all tables. Statements are idempotent so the same list
// serves a fresh SQLite file and an existing PostgreSQL database.
// Timestamps are fixed-width UTC text (see timeLayout) in both engines.
const (
	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    category_id TEXT PRIMARY KEY,
    category_name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createNotes = `CREATE TABLE IF NOT EXISTS notes (
    note_id TEXT PRIMARY KEY,
    note_title TEXT NOT NULL,
    note_body TEXT NOT NULL,
    category_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTags = `CREATE TABLE IF NOT EXISTS tags (
    tag_id TEXT PRIMARY KEY,
    tag_name TEXT NOT NULL,
    tag_color TEXT NOT NULL,
    version INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	// tag_notes holds the ordered note list of each tag. position keeps
	// insertion order and lets the same note appear more than once.
	createTagNotes = `CREATE TABLE IF NOT EXISTS tag_notes (
    tag_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    note_id TEXT NOT NULL,
    PRIMARY KEY (tag_id, position)
);`
)

// Index DDL for the lookups behind notesOfCategory and tagsOfNote.
const (
	idxNotesCategory = `CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category_id);`
	idxTagNotesNote  = `CREATE INDEX IF NOT EXISTS idx_tag_notes_note ON tag_notes(note_id);`
)

// schemaDDL lists every statement run on attach, tables before indexes.
var schemaDDL = []string{
	createCategories,
	createNotes,
	createTags,
	createTagNotes,
	idxNotesCategory,
	idxTagNotesNote,
}
