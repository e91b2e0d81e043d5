package notebook

import (
	"context"
	"errors"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// GetTag returns the tag with id, or nil if there is none.
func (s *Service) GetTag(ctx context.Context, id string) (*types.Tag, error) {
	return lookup[types.Tag](ctx, s, "tag", entityTag, types.TagsTable, id)
}

// ListTags returns every tag, oldest first.
func (s *Service) ListTags(ctx context.Context) ([]*types.Tag, error) {
	return fetch[types.Tag](ctx, s, "tags", entityTag, types.TagsTable, nil)
}

// TagsOfNote returns the tags whose note list contains noteID. A tag that
// lists the note several times appears once.
func (s *Service) TagsOfNote(ctx context.Context, noteID string) ([]*types.Tag, error) {
	const op = "tagsOfNote"
	if err := required(op, entityNote, noteID, "noteId", noteID); err != nil {
		return nil, err
	}
	return fetch[types.Tag](ctx, s, op, entityTag, types.TagsTable, types.Filter{"note_id": noteID})
}

// AddTag creates a tag. noteIDs may be nil; its order and duplicates are
// kept.
func (s *Service) AddTag(ctx context.Context, name, color string, noteIDs []string) (*types.Tag, error) {
	const op = "addTag"
	if err := required(op, entityTag, "", "tagName", name, "tagColor", color); err != nil {
		return nil, err
	}
	for _, id := range noteIDs {
		if err := required(op, entityTag, "", "noteId", id); err != nil {
			return nil, err
		}
	}
	tbl, err := s.table(ctx, op, entityTag, types.TagsTable)
	if err != nil {
		return nil, err
	}
	t := &types.Tag{Name: name, Color: color, NoteIDs: append([]string{}, noteIDs...)}
	if _, err := tbl.Set(ctx, "", t); err != nil {
		return nil, s.fail(ctx, op, entityTag, "", err)
	}
	s.logger.DebugContext(ctx, "tag added", "id", t.TagID, "notes", len(t.NoteIDs))
	return t, nil
}

// UpdateTag replaces name and color of an existing tag. The note list is
// preserved.
func (s *Service) UpdateTag(ctx context.Context, id, name, color string) (*types.Tag, error) {
	const op = "updateTag"
	if err := required(op, entityTag, id, "tagId", id, "tagName", name, "tagColor", color); err != nil {
		return nil, err
	}
	return s.editTag(ctx, op, id, func(t *types.Tag) error {
		return t.Relabel(name, color)
	})
}

// DeleteTag removes a tag and returns it as it was.
func (s *Service) DeleteTag(ctx context.Context, id string) (*types.Tag, error) {
	const op = "deleteTag"
	t, err := mustExist[types.Tag](ctx, s, op, entityTag, types.TagsTable, id)
	if err != nil {
		return nil, err
	}
	tbl, err := s.table(ctx, op, entityTag, types.TagsTable)
	if err != nil {
		return nil, err
	}
	if err := tbl.Delete(ctx, id); err != nil {
		return nil, s.fail(ctx, op, entityTag, id, err)
	}
	return t, nil
}

// AddNoteToTag appends noteID to the tag's note list. The note is not
// required to exist and may already be listed.
func (s *Service) AddNoteToTag(ctx context.Context, tagID, noteID string) (*types.Tag, error) {
	const op = "addNoteToTag"
	if err := required(op, entityTag, tagID, "tagId", tagID, "noteId", noteID); err != nil {
		return nil, err
	}
	return s.editTag(ctx, op, tagID, func(t *types.Tag) error {
		t.AddNote(noteID)
		return nil
	})
}

// RemoveNoteFromTag drops every occurrence of noteID from the tag's note
// list. Removing a note that is not listed leaves the tag unchanged.
func (s *Service) RemoveNoteFromTag(ctx context.Context, tagID, noteID string) (*types.Tag, error) {
	const op = "removeNoteFromTag"
	if err := required(op, entityTag, tagID, "tagId", tagID, "noteId", noteID); err != nil {
		return nil, err
	}
	return s.editTag(ctx, op, tagID, func(t *types.Tag) error {
		if !t.HasNote(noteID) {
			return errUnchanged
		}
		t.RemoveNote(noteID)
		return nil
	})
}

// errUnchanged is returned by a tag edit that leaves the tag as it was; the
// tag is then returned without a write.
var errUnchanged = errors.New("tag unchanged")

// editTag reads the tag, applies edit and writes it back conditional on the
// version that was read. A lost race rereads and tries again, up to
// maxRetries attempts.
func (s *Service) editTag(ctx context.Context, op, id string, edit func(*types.Tag) error) (*types.Tag, error) {
	tbl, err := s.table(ctx, op, entityTag, types.TagsTable)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		t, err := mustExist[types.Tag](ctx, s, op, entityTag, types.TagsTable, id)
		if err != nil {
			return nil, err
		}
		if err := edit(t); errors.Is(err, errUnchanged) {
			return t, nil
		} else if err != nil {
			return nil, s.fail(ctx, op, entityTag, id, err)
		}

		_, err = tbl.Set(ctx, id, t)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, types.ErrVersionConflict) || attempt >= s.maxRetries {
			return nil, s.fail(ctx, op, entityTag, id, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, s.fail(ctx, op, entityTag, id, ctxErr)
		}
		s.logger.DebugContext(ctx, "tag version conflict, retrying",
			"op", op, "id", id, "attempt", attempt)
	}
}
