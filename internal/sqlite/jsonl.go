package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// jsonlFile returns the JSONL file name for a table.
func jsonlFile(table string) string {
	return table + ".jsonl"
}

// initJSONLFiles creates an empty JSONL file for every table that has none.
func initJSONLFiles(dataDir string) error {
	for _, table := range types.StandardTableNames {
		path := filepath.Join(dataDir, jsonlFile(table))
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		records = append(records, json.RawMessage(append([]byte(nil), line...)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically replaces path with records, one per line, using the
// temp-file, fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err = w.Write(rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err = w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// marshalRecords encodes each record as one JSONL line.
func marshalRecords[T any](recs []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling record: %w", err)
		}
		out = append(out, data)
	}
	return out, nil
}

// persistJSONL rewrites the JSONL file of table from the database. It is a
// no-op for backends that do not mirror to files. The caller must hold the
// write lock. Cancelling ctx does not stop it; the file must not fall
// behind a committed database.
func (b *Backend) persistJSONL(ctx context.Context, table string) error {
	if !b.persistsJSONL() {
		return nil
	}
	ctx = context.WithoutCancel(ctx)

	var (
		records []json.RawMessage
		err     error
	)
	switch table {
	case types.CategoriesTable:
		var recs []categoryRecord
		if recs, err = selectAll[categoryRecord](ctx, b, table, categoryColumns, "category_id"); err == nil {
			records, err = marshalRecords(recs)
		}
	case types.NotesTable:
		var recs []noteRecord
		if recs, err = selectAll[noteRecord](ctx, b, table, noteColumns, "note_id"); err == nil {
			records, err = marshalRecords(recs)
		}
	case types.TagsTable:
		var recs []tagRecord
		if recs, err = selectAll[tagRecord](ctx, b, table, tagColumns, "tag_id"); err == nil {
			if err = b.attachNoteIDs(ctx, b.db, recs); err == nil {
				records, err = marshalRecords(recs)
			}
		}
	default:
		return types.ErrTableNotFound
	}
	if err != nil {
		return fmt.Errorf("persisting %s: %w", jsonlFile(table), err)
	}

	return writeJSONL(filepath.Join(b.config.DataDir, jsonlFile(table)), records)
}

// selectAll reads every row of table in creation order.
func selectAll[T any](ctx context.Context, b *Backend, table string, columns []string, idColumn string) ([]T, error) {
	query, args, err := b.sb.Select(columns...).
		From(table).
		OrderBy("created_at ASC", idColumn+" ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var recs []T
	if err := b.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, err
	}
	return recs, nil
}
