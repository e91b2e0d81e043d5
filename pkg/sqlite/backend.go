// Package sqlite provides the public API for the notebook storage backend.
// This package exposes the factory function for creating backends while
// keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/notebook/internal/sqlite"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

// NewBackend creates a new backend instance. The same backend serves the
// sqlite and postgres engines; Config.Backend selects one at Attach.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".notebook-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
