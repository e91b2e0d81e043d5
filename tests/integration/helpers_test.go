package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestMain builds the notebook binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}

	tmpDir, err := os.MkdirTemp("", "notebook-test-*")
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}
	notebookBin = filepath.Join(tmpDir, "notebook")

	cmd := exec.Command("go", "build", "-o", notebookBin, "./cmd/notebook")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(output)}
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// queryResult is the JSON shape printed by the query command.
type queryResult[T any] struct {
	Data   T `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

// mustQuery runs a GraphQL document through the CLI and decodes its data.
func mustQuery[T any](t *testing.T, env *TestEnv, doc string, args ...string) T {
	t.Helper()
	res := env.MustRun(append([]string{"query", doc}, args...)...)
	return ParseJSON[queryResult[T]](t, res.Stdout).Data
}

// addCategory creates a category through the CLI and returns its id.
func addCategory(t *testing.T, env *TestEnv, name string) string {
	t.Helper()
	out := mustQuery[struct {
		AddCategory struct {
			ID string `json:"id"`
		} `json:"addCategory"`
	}](t, env, `mutation($n: String!) { addCategory(categoryName: $n) { id } }`, "--var", "n="+name)
	if out.AddCategory.ID == "" {
		t.Fatalf("addCategory %q returned no id", name)
	}
	return out.AddCategory.ID
}

// addNote creates a note through the CLI and returns its id.
func addNote(t *testing.T, env *TestEnv, categoryID, title, body string) string {
	t.Helper()
	out := mustQuery[struct {
		AddNote struct {
			ID string `json:"id"`
		} `json:"addNote"`
	}](t, env, `mutation($c: ID!, $t: String!, $b: String!) { addNote(categoryId: $c, noteTitle: $t, noteBody: $b) { id } }`,
		"--var", "c="+categoryID, "--var", "t="+title, "--var", "b="+body)
	if out.AddNote.ID == "" {
		t.Fatalf("addNote %q returned no id", title)
	}
	return out.AddNote.ID
}
