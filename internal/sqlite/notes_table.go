// This file implements the notes table accessor.
package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

var _ types.Table = (*notesTable)(nil)

type notesTable struct {
	backend *Backend
}

// Get retrieves a note by ID.
func (nt *notesTable) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	unlock, err := nt.backend.lockRead()
	if err != nil {
		return nil, err
	}
	defer unlock()

	query, args, err := nt.backend.sb.Select(noteColumns...).
		From(types.NotesTable).
		Where(sq.Eq{"note_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building note query: %w", err)
	}

	var rec noteRecord
	if err := nt.backend.db.GetContext(ctx, &rec, query, args...); err != nil {
		return nil, notFound(err, "getting note %s", id)
	}
	return rec.entity()
}

// Set persists a note. Title, body and category id are required; the
// category id is stored as given without checking that the category exists.
func (nt *notesTable) Set(ctx context.Context, id string, data any) (string, error) {
	n, ok := data.(*types.Note)
	if !ok || n == nil {
		return "", types.ErrInvalidData
	}
	switch {
	case n.Title == "":
		return "", types.ErrInvalidName
	case n.Body == "":
		return "", types.ErrInvalidContent
	case n.CategoryID == "":
		return "", types.ErrInvalidID
	}

	unlock, err := nt.backend.lockWrite()
	if err != nil {
		return "", err
	}
	defer unlock()

	now := time.Now().UTC()
	db := nt.backend.db

	if id == "" {
		n.NoteID = newUUID()
		n.CreatedAt = now
		n.UpdatedAt = now

		query, args, err := nt.backend.sb.Insert(types.NotesTable).
			Columns(noteColumns...).
			Values(newNoteRecord(n).values()...).
			ToSql()
		if err != nil {
			return "", fmt.Errorf("building note insert: %w", err)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return "", fmt.Errorf("inserting note: %w", err)
		}
	} else {
		update := nt.backend.sb.Update(types.NotesTable).
			Set("note_title", n.Title).
			Set("note_body", n.Body).
			Set("category_id", n.CategoryID).
			Set("updated_at", formatTime(now)).
			Where(sq.Eq{"note_id": id})
		if err := execAffecting(ctx, db, update); err != nil {
			if err == types.ErrNotFound {
				return "", err
			}
			return "", fmt.Errorf("updating note %s: %w", id, err)
		}
		n.NoteID = id
		n.UpdatedAt = now
	}

	if err := nt.backend.persistJSONL(ctx, types.NotesTable); err != nil {
		return "", err
	}
	return n.NoteID, nil
}

// Delete removes a note by ID. Tags that list the note keep the reference.
func (nt *notesTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	unlock, err := nt.backend.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	del := nt.backend.sb.Delete(types.NotesTable).Where(sq.Eq{"note_id": id})
	if err := execAffecting(ctx, nt.backend.db, del); err != nil {
		if err == types.ErrNotFound {
			return err
		}
		return fmt.Errorf("deleting note %s: %w", id, err)
	}

	return nt.backend.persistJSONL(ctx, types.NotesTable)
}

// Fetch returns notes matching the filter, oldest first.
func (nt *notesTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	q := nt.backend.sb.Select(noteColumns...).
		From(types.NotesTable).
		OrderBy("created_at ASC", "note_id ASC")

	categoryID, ok, err := stringFilter(filter, "category_id")
	if err != nil {
		return nil, err
	}
	if ok {
		q = q.Where(sq.Eq{"category_id": categoryID})
	}
	if q, err = applyPaging(q, filter); err != nil {
		return nil, err
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building notes query: %w", err)
	}

	unlock, err := nt.backend.lockRead()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var recs []noteRecord
	if err := nt.backend.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("fetching notes: %w", err)
	}

	results := make([]any, 0, len(recs))
	for _, rec := range recs {
		n, err := rec.entity()
		if err != nil {
			return nil, err
		}
		results = append(results, n)
	}
	return results, nil
}
