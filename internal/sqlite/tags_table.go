// This file implements the tags table accessor and the tag_notes join rows
// that hold each tag's ordered note list.
package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

var _ types.Table = (*tagsTable)(nil)

type tagsTable struct {
	backend *Backend
}

// Get retrieves a tag by ID together with its note list.
func (tt *tagsTable) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	unlock, err := tt.backend.lockRead()
	if err != nil {
		return nil, err
	}
	defer unlock()

	query, args, err := tt.backend.sb.Select(tagColumns...).
		From(types.TagsTable).
		Where(sq.Eq{"tag_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building tag query: %w", err)
	}

	var rec tagRecord
	if err := tt.backend.db.GetContext(ctx, &rec, query, args...); err != nil {
		return nil, notFound(err, "getting tag %s", id)
	}
	recs := []tagRecord{rec}
	if err := tt.backend.attachNoteIDs(ctx, tt.backend.db, recs); err != nil {
		return nil, err
	}
	return recs[0].entity()
}

// Set persists a tag. An empty id creates the tag at Version 1. Otherwise
// the stored row is replaced only if its version equals t.Version; a stale
// version yields ErrVersionConflict. On success t.Version is advanced.
func (tt *tagsTable) Set(ctx context.Context, id string, data any) (string, error) {
	t, ok := data.(*types.Tag)
	if !ok || t == nil {
		return "", types.ErrInvalidData
	}
	if err := validateTag(t); err != nil {
		return "", err
	}

	unlock, err := tt.backend.lockWrite()
	if err != nil {
		return "", err
	}
	defer unlock()

	tx, err := tt.backend.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning tag transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if id == "" {
		if t.NoteIDs == nil {
			t.NoteIDs = []string{}
		}
		t.TagID = newUUID()
		t.Version = 1
		t.CreatedAt = now
		t.UpdatedAt = now

		query, args, err := tt.backend.sb.Insert(types.TagsTable).
			Columns(tagColumns...).
			Values(newTagRecord(t).values()...).
			ToSql()
		if err != nil {
			return "", fmt.Errorf("building tag insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return "", fmt.Errorf("inserting tag: %w", err)
		}
	} else {
		if err := tt.updateRow(ctx, tx, id, t, now); err != nil {
			return "", err
		}
		del := tt.backend.sb.Delete("tag_notes").Where(sq.Eq{"tag_id": id})
		query, args, err := del.ToSql()
		if err != nil {
			return "", fmt.Errorf("building tag_notes delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return "", fmt.Errorf("clearing notes of tag %s: %w", id, err)
		}
		t.TagID = id
		t.Version++
		t.UpdatedAt = now
	}

	if err := insertTagNotes(ctx, tx, tt.backend.sb, t.TagID, t.NoteIDs); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing tag %s: %w", t.TagID, err)
	}

	if err := tt.backend.persistJSONL(ctx, types.TagsTable); err != nil {
		return "", err
	}
	return t.TagID, nil
}

// updateRow performs the compare-and-swap on the tag row.
func (tt *tagsTable) updateRow(ctx context.Context, tx *sqlx.Tx, id string, t *types.Tag, now time.Time) error {
	update := tt.backend.sb.Update(types.TagsTable).
		Set("tag_name", t.Name).
		Set("tag_color", t.Color).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", formatTime(now)).
		Where(sq.Eq{"tag_id": id, "version": t.Version})

	err := execAffecting(ctx, tx, update)
	if err == nil {
		return nil
	}
	if err != types.ErrNotFound {
		return fmt.Errorf("updating tag %s: %w", id, err)
	}

	// No row matched: either the tag is gone or the version moved on.
	query, args, err := tt.backend.sb.Select("COUNT(*)").
		From(types.TagsTable).
		Where(sq.Eq{"tag_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building tag count: %w", err)
	}
	var n int
	if err := tx.GetContext(ctx, &n, query, args...); err != nil {
		return fmt.Errorf("counting tag %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return types.ErrVersionConflict
}

// Delete removes a tag and its note list.
func (tt *tagsTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	unlock, err := tt.backend.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	tx, err := tt.backend.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tag transaction: %w", err)
	}
	defer tx.Rollback()

	del := tt.backend.sb.Delete(types.TagsTable).Where(sq.Eq{"tag_id": id})
	if err := execAffecting(ctx, tx, del); err != nil {
		if err == types.ErrNotFound {
			return err
		}
		return fmt.Errorf("deleting tag %s: %w", id, err)
	}

	query, args, err := tt.backend.sb.Delete("tag_notes").Where(sq.Eq{"tag_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building tag_notes delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clearing notes of tag %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tag delete %s: %w", id, err)
	}

	return tt.backend.persistJSONL(ctx, types.TagsTable)
}

// Fetch returns tags matching the filter, oldest first. The note_id filter
// matches tags whose note list contains that id.
func (tt *tagsTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	q := tt.backend.sb.Select(tagColumns...).
		From(types.TagsTable).
		OrderBy("created_at ASC", "tag_id ASC")

	noteID, ok, err := stringFilter(filter, "note_id")
	if err != nil {
		return nil, err
	}
	if ok {
		q = q.Where(sq.Expr("tag_id IN (SELECT tag_id FROM tag_notes WHERE note_id = ?)", noteID))
	}
	if q, err = applyPaging(q, filter); err != nil {
		return nil, err
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building tags query: %w", err)
	}

	unlock, err := tt.backend.lockRead()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var recs []tagRecord
	if err := tt.backend.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("fetching tags: %w", err)
	}
	if err := tt.backend.attachNoteIDs(ctx, tt.backend.db, recs); err != nil {
		return nil, err
	}

	results := make([]any, 0, len(recs))
	for _, rec := range recs {
		t, err := rec.entity()
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, nil
}

func validateTag(t *types.Tag) error {
	if t.Name == "" {
		return types.ErrInvalidName
	}
	if t.Color == "" {
		return types.ErrInvalidColor
	}
	for _, id := range t.NoteIDs {
		if id == "" {
			return types.ErrInvalidID
		}
	}
	return nil
}

// attachNoteIDs fills NoteIDs of every record from tag_notes in position
// order. Records without rows get an empty list.
func (b *Backend) attachNoteIDs(ctx context.Context, q sqlx.QueryerContext, recs []tagRecord) error {
	if len(recs) == 0 {
		return nil
	}
	ids := make([]string, len(recs))
	index := make(map[string]int, len(recs))
	for i := range recs {
		ids[i] = recs[i].TagID
		index[recs[i].TagID] = i
		recs[i].NoteIDs = []string{}
	}

	query, args, err := b.sb.Select(tagNoteColumns...).
		From("tag_notes").
		Where(sq.Eq{"tag_id": ids}).
		OrderBy("tag_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("building tag_notes query: %w", err)
	}

	var rows []tagNoteRecord
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return fmt.Errorf("reading tag_notes: %w", err)
	}
	for _, row := range rows {
		if i, ok := index[row.TagID]; ok {
			recs[i].NoteIDs = append(recs[i].NoteIDs, row.NoteID)
		}
	}
	return nil
}

// tagNotesBatch bounds the rows of one tag_notes INSERT. Each row binds
// three variables; SQLite caps a statement at 32766.
const tagNotesBatch = 500

// insertTagNotes writes noteIDs as the ordered note list of tagID.
func insertTagNotes(ctx context.Context, tx *sqlx.Tx, sb sq.StatementBuilderType, tagID string, noteIDs []string) error {
	for start := 0; start < len(noteIDs); start += tagNotesBatch {
		end := min(start+tagNotesBatch, len(noteIDs))
		ins := sb.Insert("tag_notes").Columns(tagNoteColumns...)
		for i := start; i < end; i++ {
			ins = ins.Values(tagID, i, noteIDs[i])
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("building tag_notes insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting notes of tag %s: %w", tagID, err)
		}
	}
	return nil
}
