// Package notebook implements the query and mutation contracts over
// Categories, Notes and Tags. A Service validates arguments, calls the Store
// and reports failures as *Error values.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// DefaultMaxRetries bounds the read-modify-write attempts of a tag edit.
const DefaultMaxRetries = 32

// Entity names used in errors and logs.
const (
	entityCategory = "category"
	entityNote     = "note"
	entityTag      = "tag"
)

// Service exposes the notebook operations on top of a Store.
type Service struct {
	store      types.Store
	logger     *slog.Logger
	cascade    bool
	maxRetries int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCascadeDeletes makes DeleteNote strip the note from every tag and
// DeleteCategory delete the category's notes. Off by default: deletes leave
// dangling references.
func WithCascadeDeletes(enabled bool) Option {
	return func(s *Service) {
		s.cascade = enabled
	}
}

// WithMaxRetries sets how many times a tag edit is attempted when it loses
// a version race.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// New returns a Service over an attached store.
func New(store types.Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logger returns the service logger.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

// fail wraps err as an *Error. Storage failures are logged.
func (s *Service) fail(ctx context.Context, op, entity, id string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	kind := classify(err)
	if kind == KindStorage {
		s.logger.ErrorContext(ctx, "store operation failed",
			"op", op, "entity", entity, "id", id, "error", err)
	}
	return &Error{Op: op, Kind: kind, Entity: entity, ID: id, Err: err}
}

// invalid reports a missing or blank required argument.
func invalid(op, entity, id, field string) error {
	return &Error{
		Op:     op,
		Kind:   KindValidation,
		Entity: entity,
		ID:     id,
		Err:    fmt.Errorf("%s is required", field),
	}
}

// required checks that every field/value pair is non-blank.
func required(op, entity, id string, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return invalid(op, entity, id, pairs[i])
		}
	}
	return nil
}

func (s *Service) table(ctx context.Context, op, entity, name string) (types.Table, error) {
	tbl, err := s.store.GetTable(name)
	if err != nil {
		return nil, s.fail(ctx, op, entity, "", err)
	}
	return tbl, nil
}

// entityAs converts a value returned by a Table to its concrete type.
func entityAs[T any](v any) (*T, error) {
	e, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("unexpected entity type %T", v)
	}
	return e, nil
}

// lookup returns the entity with id, or nil when it does not exist.
func lookup[T any](ctx context.Context, s *Service, op, entity, tableName, id string) (*T, error) {
	if err := required(op, entity, id, "id", id); err != nil {
		return nil, err
	}
	tbl, err := s.table(ctx, op, entity, tableName)
	if err != nil {
		return nil, err
	}
	v, err := tbl.Get(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail(ctx, op, entity, id, err)
	}
	e, err := entityAs[T](v)
	if err != nil {
		return nil, s.fail(ctx, op, entity, id, err)
	}
	return e, nil
}

// mustExist is lookup for write paths: absence is a NotFound error.
func mustExist[T any](ctx context.Context, s *Service, op, entity, tableName, id string) (*T, error) {
	e, err := lookup[T](ctx, s, op, entity, tableName, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &Error{Op: op, Kind: KindNotFound, Entity: entity, ID: id, Err: types.ErrNotFound}
	}
	return e, nil
}

// fetch returns every entity of tableName matching filter, oldest first.
func fetch[T any](ctx context.Context, s *Service, op, entity, tableName string, filter types.Filter) ([]*T, error) {
	tbl, err := s.table(ctx, op, entity, tableName)
	if err != nil {
		return nil, err
	}
	vals, err := tbl.Fetch(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, op, entity, "", err)
	}
	out := make([]*T, 0, len(vals))
	for _, v := range vals {
		e, err := entityAs[T](v)
		if err != nil {
			return nil, s.fail(ctx, op, entity, "", err)
		}
		out = append(out, e)
	}
	return out, nil
}
