package notebook

import (
	"context"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// GetCategory returns the category with id, or nil if there is none.
func (s *Service) GetCategory(ctx context.Context, id string) (*types.Category, error) {
	return lookup[types.Category](ctx, s, "category", entityCategory, types.CategoriesTable, id)
}

// ListCategories returns every category, oldest first.
func (s *Service) ListCategories(ctx context.Context) ([]*types.Category, error) {
	return fetch[types.Category](ctx, s, "categories", entityCategory, types.CategoriesTable, nil)
}

// AddCategory creates a category.
func (s *Service) AddCategory(ctx context.Context, name string) (*types.Category, error) {
	const op = "addCategory"
	if err := required(op, entityCategory, "", "categoryName", name); err != nil {
		return nil, err
	}
	tbl, err := s.table(ctx, op, entityCategory, types.CategoriesTable)
	if err != nil {
		return nil, err
	}
	cat := &types.Category{Name: name}
	if _, err := tbl.Set(ctx, "", cat); err != nil {
		return nil, s.fail(ctx, op, entityCategory, "", err)
	}
	s.logger.DebugContext(ctx, "category added", "id", cat.CategoryID)
	return cat, nil
}

// UpdateCategory renames an existing category.
func (s *Service) UpdateCategory(ctx context.Context, id, name string) (*types.Category, error) {
	const op = "updateCategory"
	if err := required(op, entityCategory, id, "id", id, "categoryName", name); err != nil {
		return nil, err
	}
	cat, err := mustExist[types.Category](ctx, s, op, entityCategory, types.CategoriesTable, id)
	if err != nil {
		return nil, err
	}
	if err := cat.Rename(name); err != nil {
		return nil, s.fail(ctx, op, entityCategory, id, err)
	}
	tbl, err := s.table(ctx, op, entityCategory, types.CategoriesTable)
	if err != nil {
		return nil, err
	}
	if _, err := tbl.Set(ctx, id, cat); err != nil {
		return nil, s.fail(ctx, op, entityCategory, id, err)
	}
	return cat, nil
}

// DeleteCategory removes a category and returns it as it was. Its notes
// keep their dangling category id unless cascade deletes are enabled, in
// which case they are deleted first; the category row goes last so a
// failed cascade can be retried.
func (s *Service) DeleteCategory(ctx context.Context, id string) (*types.Category, error) {
	const op = "deleteCategory"
	cat, err := mustExist[types.Category](ctx, s, op, entityCategory, types.CategoriesTable, id)
	if err != nil {
		return nil, err
	}
	tbl, err := s.table(ctx, op, entityCategory, types.CategoriesTable)
	if err != nil {
		return nil, err
	}

	if s.cascade {
		notes, err := s.NotesOfCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, n := range notes {
			if err := s.removeNote(ctx, op, n.NoteID); err != nil {
				return nil, err
			}
		}
		s.logger.DebugContext(ctx, "category notes cascaded", "id", id, "notes", len(notes))
	}

	if err := tbl.Delete(ctx, id); err != nil {
		return nil, s.fail(ctx, op, entityCategory, id, err)
	}
	return cat, nil
}
