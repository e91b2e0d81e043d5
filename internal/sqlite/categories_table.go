// This file implements the categories table accessor.
package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

var _ types.Table = (*categoriesTable)(nil)

type categoriesTable struct {
	backend *Backend
}

// Get retrieves a category by ID.
func (ct *categoriesTable) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	unlock, err := ct.backend.lockRead()
	if err != nil {
		return nil, err
	}
	defer unlock()

	query, args, err := ct.backend.sb.Select(categoryColumns...).
		From(types.CategoriesTable).
		Where(sq.Eq{"category_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building category query: %w", err)
	}

	var rec categoryRecord
	if err := ct.backend.db.GetContext(ctx, &rec, query, args...); err != nil {
		return nil, notFound(err, "getting category %s", id)
	}
	return rec.entity()
}

// Set persists a category. An empty id creates the category with a new
// UUID v7; otherwise the name of the existing category is replaced.
func (ct *categoriesTable) Set(ctx context.Context, id string, data any) (string, error) {
	cat, ok := data.(*types.Category)
	if !ok || cat == nil {
		return "", types.ErrInvalidData
	}
	if cat.Name == "" {
		return "", types.ErrInvalidName
	}

	unlock, err := ct.backend.lockWrite()
	if err != nil {
		return "", err
	}
	defer unlock()

	now := time.Now().UTC()
	db := ct.backend.db

	if id == "" {
		cat.CategoryID = newUUID()
		cat.CreatedAt = now
		cat.UpdatedAt = now

		query, args, err := ct.backend.sb.Insert(types.CategoriesTable).
			Columns(categoryColumns...).
			Values(newCategoryRecord(cat).values()...).
			ToSql()
		if err != nil {
			return "", fmt.Errorf("building category insert: %w", err)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return "", fmt.Errorf("inserting category: %w", err)
		}
	} else {
		update := ct.backend.sb.Update(types.CategoriesTable).
			Set("category_name", cat.Name).
			Set("updated_at", formatTime(now)).
			Where(sq.Eq{"category_id": id})
		if err := execAffecting(ctx, db, update); err != nil {
			if err == types.ErrNotFound {
				return "", err
			}
			return "", fmt.Errorf("updating category %s: %w", id, err)
		}
		cat.CategoryID = id
		cat.UpdatedAt = now
	}

	if err := ct.backend.persistJSONL(ctx, types.CategoriesTable); err != nil {
		return "", err
	}
	return cat.CategoryID, nil
}

// Delete removes a category by ID. Notes that reference it are not touched.
func (ct *categoriesTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	unlock, err := ct.backend.lockWrite()
	if err != nil {
		return err
	}
	defer unlock()

	del := ct.backend.sb.Delete(types.CategoriesTable).Where(sq.Eq{"category_id": id})
	if err := execAffecting(ctx, ct.backend.db, del); err != nil {
		if err == types.ErrNotFound {
			return err
		}
		return fmt.Errorf("deleting category %s: %w", id, err)
	}

	return ct.backend.persistJSONL(ctx, types.CategoriesTable)
}

// Fetch returns categories matching the filter, oldest first.
func (ct *categoriesTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	q := ct.backend.sb.Select(categoryColumns...).
		From(types.CategoriesTable).
		OrderBy("created_at ASC", "category_id ASC")

	name, ok, err := stringFilter(filter, "name")
	if err != nil {
		return nil, err
	}
	if ok {
		q = q.Where(sq.Eq{"category_name": name})
	}
	if q, err = applyPaging(q, filter); err != nil {
		return nil, err
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building categories query: %w", err)
	}

	unlock, err := ct.backend.lockRead()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var recs []categoryRecord
	if err := ct.backend.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}

	results := make([]any, 0, len(recs))
	for _, rec := range recs {
		c, err := rec.entity()
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, nil
}
