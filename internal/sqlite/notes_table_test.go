// Unit tests for the notes table.
package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

func TestNotesTable_CRUD(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)
	notes := mustTable(t, b, types.NotesTable)

	n := &types.Note{Title: "Groceries", Body: "milk", CategoryID: "c1"}
	id, err := notes.Set(ctx, "", n)
	require.NoError(t, err)
	assert.Equal(t, id, n.NoteID)

	got, err := notes.Get(ctx, id)
	require.NoError(t, err)
	stored := got.(*types.Note)
	assert.Equal(t, "Groceries", stored.Title)
	assert.Equal(t, "milk", stored.Body)
	assert.Equal(t, "c1", stored.CategoryID)

	_, err = notes.Set(ctx, id, &types.Note{Title: "Groceries", Body: "eggs", CategoryID: "c2"})
	require.NoError(t, err)
	got, err = notes.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "eggs", got.(*types.Note).Body)
	assert.Equal(t, "c2", got.(*types.Note).CategoryID)

	require.NoError(t, notes.Delete(ctx, id))
	_, err = notes.Get(ctx, id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, notes.Delete(ctx, id), types.ErrNotFound)
}

func TestNotesTable_Validation(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)
	notes := mustTable(t, b, types.NotesTable)

	tests := []struct {
		name string
		note *types.Note
		want error
	}{
		{"missing title", &types.Note{Body: "b", CategoryID: "c"}, types.ErrInvalidName},
		{"missing body", &types.Note{Title: "t", CategoryID: "c"}, types.ErrInvalidContent},
		{"missing category", &types.Note{Title: "t", Body: "b"}, types.ErrInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := notes.Set(ctx, "", tt.note)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := notes.Set(ctx, "missing", &types.Note{Title: "t", Body: "b", CategoryID: "c"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestNotesTable_FetchByCategory(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)
	notes := mustTable(t, b, types.NotesTable)

	for _, cat := range []string{"a", "b", "a", "ab"} {
		_, err := notes.Set(ctx, "", &types.Note{Title: "t", Body: "b", CategoryID: cat})
		require.NoError(t, err)
	}

	got, err := notes.Fetch(ctx, types.Filter{"category_id": "a"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, n := range got {
		assert.Equal(t, "a", n.(*types.Note).CategoryID)
	}

	none, err := notes.Fetch(ctx, types.Filter{"category_id": "zzz"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
