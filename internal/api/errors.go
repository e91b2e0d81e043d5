package api

import (
	"fmt"

	"github.com/mesh-intelligence/notebook/pkg/notebook"
)

// Error codes reported in the extensions of a GraphQL error.
const (
	CodeValidation = "VALIDATION"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeStorage    = "STORAGE"
)

// codedError carries a machine readable code into the GraphQL response.
// graphql-go copies Extensions into the formatted error.
type codedError struct {
	err  error
	code string
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func codeOf(err error) string {
	switch notebook.KindOf(err) {
	case notebook.KindValidation:
		return CodeValidation
	case notebook.KindNotFound:
		return CodeNotFound
	case notebook.KindConflict:
		return CodeConflict
	default:
		return CodeStorage
	}
}

func coded(err error) error {
	if err == nil {
		return nil
	}
	return &codedError{err: err, code: codeOf(err)}
}

// Policy selects how mutation failures reach the caller.
type Policy string

const (
	// PolicyStrict reports every failure as a GraphQL error.
	PolicyStrict Policy = "strict"
	// PolicyLenient logs update, delete and membership failures and
	// resolves the field to null without an error.
	PolicyLenient Policy = "lenient"
)

// ParsePolicy validates a policy name. Empty means strict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown error policy %q", s)
	}
}
