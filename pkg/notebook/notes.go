package notebook

import (
	"context"
	"errors"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// GetNote returns the note with id, or nil if there is none.
func (s *Service) GetNote(ctx context.Context, id string) (*types.Note, error) {
	return lookup[types.Note](ctx, s, "note", entityNote, types.NotesTable, id)
}

// ListNotes returns every note, oldest first.
func (s *Service) ListNotes(ctx context.Context) ([]*types.Note, error) {
	return fetch[types.Note](ctx, s, "notes", entityNote, types.NotesTable, nil)
}

// NotesOfCategory returns the notes whose category id equals categoryID.
func (s *Service) NotesOfCategory(ctx context.Context, categoryID string) ([]*types.Note, error) {
	const op = "notesOfCategory"
	if err := required(op, entityCategory, categoryID, "categoryId", categoryID); err != nil {
		return nil, err
	}
	return fetch[types.Note](ctx, s, op, entityNote, types.NotesTable, types.Filter{"category_id": categoryID})
}

// AddNote creates a note in categoryID. The category is not required to
// exist.
func (s *Service) AddNote(ctx context.Context, title, body, categoryID string) (*types.Note, error) {
	const op = "addNote"
	if err := required(op, entityNote, "", "noteTitle", title, "noteBody", body, "categoryId", categoryID); err != nil {
		return nil, err
	}
	tbl, err := s.table(ctx, op, entityNote, types.NotesTable)
	if err != nil {
		return nil, err
	}
	n := &types.Note{Title: title, Body: body, CategoryID: categoryID}
	if _, err := tbl.Set(ctx, "", n); err != nil {
		return nil, s.fail(ctx, op, entityNote, "", err)
	}
	s.logger.DebugContext(ctx, "note added", "id", n.NoteID, "category", categoryID)
	return n, nil
}

// UpdateNote replaces title and body of an existing note.
func (s *Service) UpdateNote(ctx context.Context, id, title, body string) (*types.Note, error) {
	const op = "updateNote"
	if err := required(op, entityNote, id, "id", id, "noteTitle", title, "noteBody", body); err != nil {
		return nil, err
	}
	n, err := mustExist[types.Note](ctx, s, op, entityNote, types.NotesTable, id)
	if err != nil {
		return nil, err
	}
	if err := n.Edit(title, body); err != nil {
		return nil, s.fail(ctx, op, entityNote, id, err)
	}
	tbl, err := s.table(ctx, op, entityNote, types.NotesTable)
	if err != nil {
		return nil, err
	}
	if _, err := tbl.Set(ctx, id, n); err != nil {
		return nil, s.fail(ctx, op, entityNote, id, err)
	}
	return n, nil
}

// DeleteNote removes a note and returns it as it was. With cascade deletes
// enabled the note is also stripped from every tag.
func (s *Service) DeleteNote(ctx context.Context, id string) (*types.Note, error) {
	const op = "deleteNote"
	n, err := mustExist[types.Note](ctx, s, op, entityNote, types.NotesTable, id)
	if err != nil {
		return nil, err
	}
	if err := s.removeNote(ctx, op, id); err != nil {
		return nil, err
	}
	return n, nil
}

// removeNote deletes one note and, when cascading, its tag references.
// A note already gone is not an error here.
func (s *Service) removeNote(ctx context.Context, op, id string) error {
	tbl, err := s.table(ctx, op, entityNote, types.NotesTable)
	if err != nil {
		return err
	}
	if err := tbl.Delete(ctx, id); err != nil && !errors.Is(err, types.ErrNotFound) {
		return s.fail(ctx, op, entityNote, id, err)
	}
	if !s.cascade {
		return nil
	}

	tags, err := s.TagsOfNote(ctx, id)
	if err != nil {
		return err
	}
	for _, t := range tags {
		_, err := s.editTag(ctx, op, t.TagID, func(tag *types.Tag) error {
			if !tag.HasNote(id) {
				return errUnchanged
			}
			tag.RemoveNote(id)
			return nil
		})
		if err != nil && KindOf(err) != KindNotFound {
			return err
		}
	}
	return nil
}
