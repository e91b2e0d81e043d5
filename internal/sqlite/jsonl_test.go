// Tests for JSONL persistence: atomic writes, reload on attach, and
// tolerance of bad lines.
package sqlite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

func TestWriteJSONL_ReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	err := writeJSONL(path, []json.RawMessage{
		json.RawMessage(`{"a":1}`),
		json.RawMessage(`{"a":2}`),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestReadJSONL_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jsonl")
	content := strings.Join([]string{`{"a":1}`, ``, `{not json`, `{"a":2}`}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	recs, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.JSONEq(t, `{"a":2}`, string(recs[1]))
}

func TestJSONL_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))

	cats := mustTable(t, b, types.CategoriesTable)
	notes := mustTable(t, b, types.NotesTable)
	tags := mustTable(t, b, types.TagsTable)

	catID, err := cats.Set(ctx, "", &types.Category{Name: "Work"})
	require.NoError(t, err)
	noteID, err := notes.Set(ctx, "", &types.Note{Title: "t", Body: "b", CategoryID: catID})
	require.NoError(t, err)
	tag := &types.Tag{Name: "urgent", Color: "red", NoteIDs: []string{noteID, noteID}}
	tagID, err := tags.Set(ctx, "", tag)
	require.NoError(t, err)
	tag.AddNote("other")
	_, err = tags.Set(ctx, tagID, tag)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	data, err := os.ReadFile(filepath.Join(dir, "tags.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"note_ids":[`)

	reopened := NewBackend()
	require.NoError(t, reopened.Attach(config))
	defer reopened.Detach()

	got, err := mustTable(t, reopened, types.CategoriesTable).Get(ctx, catID)
	require.NoError(t, err)
	assert.Equal(t, "Work", got.(*types.Category).Name)

	got, err = mustTable(t, reopened, types.NotesTable).Get(ctx, noteID)
	require.NoError(t, err)
	assert.Equal(t, catID, got.(*types.Note).CategoryID)

	got, err = mustTable(t, reopened, types.TagsTable).Get(ctx, tagID)
	require.NoError(t, err)
	reloaded := got.(*types.Tag)
	assert.Equal(t, []string{noteID, noteID, "other"}, reloaded.NoteIDs)
	assert.Equal(t, int64(2), reloaded.Version)
}

func TestLoadAllJSONL_SkipsBadRecords(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	ts := "2026-01-02T03:04:05.000000000Z"
	lines := []string{
		`{"category_id":"c1","category_name":"Good","created_at":"` + ts + `","updated_at":"` + ts + `"}`,
		`{"category_id":"","category_name":"No id","created_at":"` + ts + `","updated_at":"` + ts + `"}`,
		`{"category_id":"c2","category_name":"Bad time","created_at":"yesterday","updated_at":"` + ts + `"}`,
		`{"category_id":"c1","category_name":"Duplicate","created_at":"` + ts + `","updated_at":"` + ts + `"}`,
		`garbage`,
		`{"category_id":"c3","category_name":"Extra","created_at":"` + ts + `","updated_at":"` + ts + `","color":"ignored"}`,
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.jsonl"), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	tagLine := `{"tag_id":"t1","tag_name":"old","tag_color":"blue","created_at":"` + ts + `","updated_at":"` + ts + `","note_ids":["n1"]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tags.jsonl"), []byte(tagLine+"\n"), 0o644))

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	all, err := mustTable(t, b, types.CategoriesTable).Fetch(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Good", all[0].(*types.Category).Name)
	assert.Equal(t, "Extra", all[1].(*types.Category).Name)

	got, err := mustTable(t, b, types.TagsTable).Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.(*types.Tag).Version, "missing version loads as 1")
	assert.Equal(t, []string{"n1"}, got.(*types.Tag).NoteIDs)
}

func TestPersistJSONL_IgnoresCancellation(t *testing.T) {
	b, dir := newTestBackend(t)
	catID, err := mustTable(t, b, types.CategoriesTable).Set(context.Background(), "", &types.Category{Name: "Work"})
	require.NoError(t, err)
	path := filepath.Join(dir, "categories.jsonl")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b.mu.Lock()
	err = b.persistJSONL(ctx, types.CategoriesTable)
	b.mu.Unlock()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), catID)
}
