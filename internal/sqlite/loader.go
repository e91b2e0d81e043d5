package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// loadAllJSONL reads each JSONL file from dataDir and inserts its records
// into the database. Loading is transactional: all tables load or none do.
// Malformed lines, records without an id, records with unparseable
// timestamps and records that violate a constraint are skipped. Unknown
// fields are ignored.
func loadAllJSONL(ctx context.Context, db *sqlx.DB, sb sq.StatementBuilderType, dataDir string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	loaders := []struct {
		table string
		load  func(context.Context, *sqlx.Tx, sq.StatementBuilderType, []json.RawMessage) error
	}{
		{types.CategoriesTable, loadCategories},
		{types.NotesTable, loadNotes},
		{types.TagsTable, loadTags},
	}

	for _, l := range loaders {
		records, err := readJSONL(filepath.Join(dataDir, jsonlFile(l.table)))
		if err != nil {
			return err
		}
		if len(records) == 0 {
			continue
		}
		if err := l.load(ctx, tx, sb, records); err != nil {
			return fmt.Errorf("loading %s: %w", jsonlFile(l.table), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

func loadCategories(ctx context.Context, tx *sqlx.Tx, sb sq.StatementBuilderType, records []json.RawMessage) error {
	for _, raw := range records {
		var rec categoryRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.CategoryID == "" {
			continue
		}
		if _, err := rec.entity(); err != nil {
			continue
		}
		insertRecord(ctx, tx, sb, types.CategoriesTable, categoryColumns, rec.values())
	}
	return nil
}

func loadNotes(ctx context.Context, tx *sqlx.Tx, sb sq.StatementBuilderType, records []json.RawMessage) error {
	for _, raw := range records {
		var rec noteRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.NoteID == "" {
			continue
		}
		if _, err := rec.entity(); err != nil {
			continue
		}
		insertRecord(ctx, tx, sb, types.NotesTable, noteColumns, rec.values())
	}
	return nil
}

func loadTags(ctx context.Context, tx *sqlx.Tx, sb sq.StatementBuilderType, records []json.RawMessage) error {
	for _, raw := range records {
		var rec tagRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.TagID == "" {
			continue
		}
		if _, err := rec.entity(); err != nil {
			continue
		}
		if rec.Version < 1 {
			rec.Version = 1
		}
		if !insertRecord(ctx, tx, sb, types.TagsTable, tagColumns, rec.values()) {
			continue
		}
		if err := insertTagNotes(ctx, tx, sb, rec.TagID, rec.NoteIDs); err != nil {
			return err
		}
	}
	return nil
}

// insertRecord inserts one row and reports whether it was accepted. Rows
// that violate a constraint (duplicate ids) are dropped.
func insertRecord(ctx context.Context, tx *sqlx.Tx, sb sq.StatementBuilderType, table string, columns []string, values []any) bool {
	query, args, err := sb.Insert(table).Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return false
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err == nil
}
