package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// applyPaging adds LIMIT and OFFSET from the filter to the query. An offset
// without a limit gets the largest limit both engines accept, since neither
// allows OFFSET on its own.
func applyPaging(q sq.SelectBuilder, filter types.Filter) (sq.SelectBuilder, error) {
	limited := false
	if v, ok := filter["limit"]; ok {
		limit, ok := toInt(v)
		if !ok {
			return q, types.ErrInvalidFilter
		}
		if limit > 0 {
			q = q.Limit(uint64(limit))
			limited = true
		}
	}
	if v, ok := filter["offset"]; ok {
		offset, ok := toInt(v)
		if !ok {
			return q, types.ErrInvalidFilter
		}
		if offset > 0 {
			if !limited {
				q = q.Limit(math.MaxInt64)
			}
			q = q.Offset(uint64(offset))
		}
	}
	return q, nil
}

// stringFilter returns the string value of key, or ErrInvalidFilter when
// the key is present with another type.
func stringFilter(filter types.Filter, key string) (string, bool, error) {
	v, ok := filter[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, types.ErrInvalidFilter
	}
	return s, true, nil
}

// toInt converts filter values decoded from Go or JSON into an int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// execAffecting runs a write and returns ErrNotFound when no row matched.
func execAffecting(ctx context.Context, exec sq.ExecerContext, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building statement: %w", err)
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// notFound maps sql.ErrNoRows onto ErrNotFound and wraps anything else.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
