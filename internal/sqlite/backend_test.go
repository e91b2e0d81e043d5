// Tests for backend lifecycle: attach, detach, table lookup.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// newTestBackend attaches a sqlite backend in a temp dir and detaches it
// when the test ends.
func newTestBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func mustTable(t *testing.T, b *Backend, name string) types.Table {
	t.Helper()
	tbl, err := b.GetTable(name)
	require.NoError(t, err)
	return tbl
}

func TestBackend_Attach(t *testing.T) {
	b, dir := newTestBackend(t)

	_, err := os.Stat(filepath.Join(dir, dbFileName))
	assert.NoError(t, err, "database file should exist")

	for _, table := range types.StandardTableNames {
		_, err := os.Stat(filepath.Join(dir, jsonlFile(table)))
		assert.NoError(t, err, "%s should exist", jsonlFile(table))
	}

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config types.Config
		want   error
	}{
		{"empty backend", types.Config{}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "dynamodb"}, types.ErrBackendUnknown},
		{"postgres without dsn", types.Config{Backend: types.BackendPostgres}, types.ErrDSNEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBackend().Attach(tt.config)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBackend_Detach(t *testing.T) {
	b, _ := newTestBackend(t)
	cats := mustTable(t, b, types.CategoriesTable)

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should succeed")

	_, err := b.GetTable(types.CategoriesTable)
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	_, err = cats.Get(context.Background(), "anything")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = cats.Set(context.Background(), "", &types.Category{Name: "x"})
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_GetTable(t *testing.T) {
	b, _ := newTestBackend(t)

	for _, name := range types.StandardTableNames {
		tbl, err := b.GetTable(name)
		require.NoError(t, err, name)
		assert.NotNil(t, tbl)
	}

	_, err := b.GetTable("widgets")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}
