package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	env := NewTestEnv(t)
	res := env.MustRun("version")
	assert.True(t, strings.HasPrefix(res.Stdout, "notebook v"), "stdout: %s", res.Stdout)
	assert.Contains(t, res.Stdout, "module: github.com/mesh-intelligence/notebook")
}

func TestInitCreatesStorage(t *testing.T) {
	env := NewTestEnv(t)
	res := env.MustRun("init")
	assert.Contains(t, res.Stdout, "Notebook initialized successfully")

	for _, name := range []string{"categories.jsonl", "notes.jsonl", "tags.jsonl", "notebook.db"} {
		_, err := os.Stat(filepath.Join(env.DataDir, name))
		assert.NoError(t, err, "expected %s in data dir", name)
	}

	// A second init keeps the existing config.
	res = env.MustRun("init")
	assert.NotContains(t, res.Stdout, "wrote:")
}

func TestCategoryNoteTagWorkflow(t *testing.T) {
	env := NewTestEnv(t)

	catID := addCategory(t, env, "Work")
	noteID := addNote(t, env, catID, "Standup", "notes from standup")

	tagged := mustQuery[struct {
		AddTag struct {
			ID     string   `json:"id"`
			NoteID []string `json:"noteId"`
		} `json:"addTag"`
	}](t, env, `mutation($n: ID!) { addTag(tagName: "daily", tagColor: "#0f0", noteId: [$n]) { id noteId } }`,
		"--var", "n="+noteID)
	require.NotEmpty(t, tagged.AddTag.ID)
	assert.Equal(t, []string{noteID}, tagged.AddTag.NoteID)

	tree := mustQuery[struct {
		Category struct {
			CategoryName string `json:"categoryName"`
			Notes        []struct {
				ID   string `json:"id"`
				Tags []struct {
					TagName string `json:"tagName"`
				} `json:"tags"`
			} `json:"notes"`
		} `json:"category"`
	}](t, env, `query($c: ID!) { category(id: $c) { categoryName notes { id tags { tagName } } } }`,
		"--var", "c="+catID)
	assert.Equal(t, "Work", tree.Category.CategoryName)
	require.Len(t, tree.Category.Notes, 1)
	assert.Equal(t, noteID, tree.Category.Notes[0].ID)
	require.Len(t, tree.Category.Notes[0].Tags, 1)
	assert.Equal(t, "daily", tree.Category.Notes[0].Tags[0].TagName)
}

func TestQueryFromStdin(t *testing.T) {
	env := NewTestEnv(t)
	addCategory(t, env, "Inbox")

	res := env.RunWithInput(`{ categories { categoryName } }`, "query", "-")
	require.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
	out := ParseJSON[queryResult[struct {
		Categories []struct {
			CategoryName string `json:"categoryName"`
		} `json:"categories"`
	}]](t, res.Stdout)
	require.Len(t, out.Data.Categories, 1)
	assert.Equal(t, "Inbox", out.Data.Categories[0].CategoryName)
}

func TestQueryValidationErrorExitsNonZero(t *testing.T) {
	env := NewTestEnv(t)

	res := env.Run("query", `mutation { addCategory(categoryName: "  ") { id } }`)
	assert.Equal(t, 1, res.ExitCode)
	out := ParseJSON[queryResult[map[string]any]](t, res.Stdout)
	require.NotEmpty(t, out.Errors)
	assert.Equal(t, "VALIDATION", out.Errors[0].Extensions["code"])
}

func TestListAndGet(t *testing.T) {
	env := NewTestEnv(t)
	first := addCategory(t, env, "Alpha")
	addCategory(t, env, "Beta")

	res := env.MustRun("--json", "list", "categories")
	cats := ParseJSON[[]Category](t, res.Stdout)
	require.Len(t, cats, 2)
	assert.Equal(t, "Alpha", cats[0].Name)
	assert.Equal(t, "Beta", cats[1].Name)

	res = env.MustRun("--json", "get", "categories", first)
	got := ParseJSON[Category](t, res.Stdout)
	assert.Equal(t, first, got.CategoryID)
	assert.Equal(t, "Alpha", got.Name)

	res = env.MustRun("list", "categories")
	assert.Contains(t, res.Stdout, "Alpha")
	assert.Contains(t, res.Stdout, "Beta")

	res = env.MustRun("--json", "list", "tags")
	assert.Equal(t, "[]", strings.TrimSpace(res.Stdout))
}

func TestGetMissingAndUnknownTable(t *testing.T) {
	env := NewTestEnv(t)

	res := env.Run("get", "notes", "no-such-id")
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "not found")

	res = env.Run("list", "widgets")
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "unknown table")
}

func TestJSONLSurvivesRestart(t *testing.T) {
	env := NewTestEnv(t)
	catID := addCategory(t, env, "Home")
	noteID := addNote(t, env, catID, "Groceries", "milk")

	created := mustQuery[struct {
		AddTag struct {
			ID string `json:"id"`
		} `json:"addTag"`
	}](t, env, `mutation { addTag(tagName: "errands", tagColor: "red", noteId: []) { id } }`)
	tagID := created.AddTag.ID

	doc := `mutation($t: ID!, $n: ID!) { updateTagWithNoteId(tagId: $t, noteId: $n) { id } }`
	mustQuery[map[string]any](t, env, doc, "--var", "t="+tagID, "--var", "n="+noteID)
	mustQuery[map[string]any](t, env, doc, "--var", "t="+tagID, "--var", "n="+noteID)

	lines := ReadJSONLFile[TagLine](t, filepath.Join(env.DataDir, "tags.jsonl"))
	require.Len(t, lines, 1)
	assert.Equal(t, tagID, lines[0].TagID)
	assert.Equal(t, []string{noteID, noteID}, lines[0].NoteIDs)
	assert.Equal(t, int64(3), lines[0].Version)

	// Dropping the database forces a rebuild from the JSONL files.
	require.NoError(t, os.Remove(filepath.Join(env.DataDir, "notebook.db")))

	res := env.MustRun("--json", "get", "tags", tagID)
	tag := ParseJSON[Tag](t, res.Stdout)
	assert.Equal(t, "errands", tag.Name)
	assert.Equal(t, []string{noteID, noteID}, tag.NoteIDs)
	assert.Equal(t, int64(3), tag.Version)

	res = env.MustRun("--json", "get", "notes", noteID)
	note := ParseJSON[Note](t, res.Stdout)
	assert.Equal(t, "Groceries", note.Title)
	assert.Equal(t, catID, note.CategoryID)
}
