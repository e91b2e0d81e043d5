package notebook

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// fakeStore hands out fixed tables, or fails every lookup with err.
type fakeStore struct {
	tables map[string]types.Table
	err    error
}

func (f *fakeStore) GetTable(name string) (types.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	tbl, ok := f.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return tbl, nil
}

func (f *fakeStore) Attach(types.Config) error { return nil }
func (f *fakeStore) Detach() error             { return nil }

// fakeTable returns getVal from Get and setErr from every Set.
type fakeTable struct {
	getVal   any
	setErr   error
	fetchErr error
	sets     int
}

func (f *fakeTable) Get(context.Context, string) (any, error) {
	if f.getVal == nil {
		return nil, types.ErrNotFound
	}
	return f.getVal, nil
}

func (f *fakeTable) Set(_ context.Context, id string, _ any) (string, error) {
	f.sets++
	return id, f.setErr
}

func (f *fakeTable) Delete(context.Context, string) error { return nil }

func (f *fakeTable) Fetch(context.Context, types.Filter) ([]any, error) {
	return nil, f.fetchErr
}

func TestError_Format(t *testing.T) {
	err := &Error{Op: "updateCategory", Kind: KindNotFound, Entity: "category", ID: "c1", Err: types.ErrNotFound}
	assert.Equal(t, "notebook: updateCategory: category=c1: not found: entity not found", err.Error())

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, err, &Error{Op: "updateCategory", Kind: KindNotFound})
	assert.NotErrorIs(t, err, &Error{Op: "deleteCategory", Kind: KindNotFound})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(&Error{Kind: KindConflict}))
	assert.Equal(t, KindStorage, KindOf(errors.New("plain")))
}

func TestStorageErrors_AreLoggedAndPropagated(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	driverErr := errors.New("disk full")
	notes := &fakeTable{fetchErr: driverErr}
	s := New(&fakeStore{tables: map[string]types.Table{types.NotesTable: notes}}, WithLogger(logger))

	_, err := s.ListNotes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, buf.String(), "store operation failed")
	assert.Contains(t, buf.String(), "disk full")
}

func TestDetachedStore_IsStorageError(t *testing.T) {
	s := New(&fakeStore{err: types.ErrStoreDetached})

	_, err := s.AddCategory(context.Background(), "Work")
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestEditTag_GivesUpAfterMaxRetries(t *testing.T) {
	tags := &fakeTable{
		getVal: &types.Tag{TagID: "t1", Name: "n", Color: "c", NoteIDs: []string{}, Version: 1},
		setErr: types.ErrVersionConflict,
	}
	s := New(&fakeStore{tables: map[string]types.Table{types.TagsTable: tags}}, WithMaxRetries(3))

	_, err := s.AddNoteToTag(context.Background(), "t1", "n1")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 3, tags.sets)
}
