package notebook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Kind classifies a service error.
type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "storage"
	}
}

// Sentinels for errors.Is. Every *Error matches exactly one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// Error is returned by every Service operation that fails.
type Error struct {
	Op     string // Operation that failed, e.g. "updateCategory"
	Kind   Kind
	Entity string // category, note or tag
	ID     string // Entity id, when known
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	parts := []string{"notebook: " + e.Op}
	if e.Entity != "" {
		if e.ID != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", e.Entity, e.ID))
		} else {
			parts = append(parts, e.Entity)
		}
	}
	parts = append(parts, e.Kind.String())
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels, another *Error with the same Op and Kind,
// or anything the wrapped error matches.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrStorage:
		return e.Kind == KindStorage
	}
	if t, ok := target.(*Error); ok {
		return t.Op == e.Op && t.Kind == e.Kind
	}
	return false
}

// KindOf returns the Kind of err, or KindStorage if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// classify maps a store error onto a Kind.
func classify(err error) Kind {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return KindNotFound
	case errors.Is(err, types.ErrVersionConflict):
		return KindConflict
	case errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidContent),
		errors.Is(err, types.ErrInvalidColor),
		errors.Is(err, types.ErrInvalidFilter):
		return KindValidation
	default:
		return KindStorage
	}
}
