package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagAddNote(t *testing.T) {
	tag := &Tag{Name: "work", Color: "#fff", NoteIDs: []string{}}

	tag.AddNote("n1")
	assert.Equal(t, []string{"n1"}, tag.NoteIDs)

	tag.AddNote("n1")
	assert.Equal(t, []string{"n1", "n1"}, tag.NoteIDs, "duplicates are permitted")

	tag.AddNote("n2")
	assert.Equal(t, []string{"n1", "n1", "n2"}, tag.NoteIDs, "insertion order is kept")
}

func TestTagRemoveNote(t *testing.T) {
	tests := []struct {
		name        string
		noteIDs     []string
		remove      string
		want        []string
		wantRemoved int
	}{
		{
			name:        "removes all duplicates",
			noteIDs:     []string{"n1", "n2", "n1"},
			remove:      "n1",
			want:        []string{"n2"},
			wantRemoved: 2,
		},
		{
			name:        "absent id is a no-op",
			noteIDs:     []string{"n1", "n2"},
			remove:      "n3",
			want:        []string{"n1", "n2"},
			wantRemoved: 0,
		},
		{
			name:        "empty list stays empty",
			noteIDs:     nil,
			remove:      "n1",
			want:        []string{},
			wantRemoved: 0,
		},
		{
			name:        "order of remaining ids is preserved",
			noteIDs:     []string{"a", "x", "b", "x", "c"},
			remove:      "x",
			want:        []string{"a", "b", "c"},
			wantRemoved: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := &Tag{NoteIDs: tt.noteIDs}
			removed := tag.RemoveNote(tt.remove)
			assert.Equal(t, tt.wantRemoved, removed)
			assert.Equal(t, tt.want, tag.NoteIDs)
		})
	}
}

func TestTagAddThenRemoveRestoresList(t *testing.T) {
	tag := &Tag{NoteIDs: []string{"a", "b"}}
	tag.AddNote("c")
	tag.RemoveNote("c")
	assert.Equal(t, []string{"a", "b"}, tag.NoteIDs)
}

func TestTagHasNote(t *testing.T) {
	tag := &Tag{NoteIDs: []string{"n1", "n2"}}
	assert.True(t, tag.HasNote("n2"))
	assert.False(t, tag.HasNote("n3"))
}

func TestTagRelabel(t *testing.T) {
	tag := &Tag{Name: "old", Color: "#000", NoteIDs: []string{"n1"}}

	assert.ErrorIs(t, tag.Relabel("", "#fff"), ErrInvalidName)
	assert.ErrorIs(t, tag.Relabel("new", ""), ErrInvalidColor)

	assert.NoError(t, tag.Relabel("new", "#fff"))
	assert.Equal(t, "new", tag.Name)
	assert.Equal(t, "#fff", tag.Color)
	assert.Equal(t, []string{"n1"}, tag.NoteIDs, "note list is untouched")
}

func TestCategoryRename(t *testing.T) {
	c := &Category{Name: "inbox"}
	assert.ErrorIs(t, c.Rename(""), ErrInvalidName)
	assert.Equal(t, "inbox", c.Name)

	assert.NoError(t, c.Rename("archive"))
	assert.Equal(t, "archive", c.Name)
	assert.False(t, c.UpdatedAt.IsZero())
}

func TestNoteEdit(t *testing.T) {
	n := &Note{Title: "t", Body: "b", CategoryID: "c1"}
	assert.ErrorIs(t, n.Edit("", "body"), ErrInvalidName)
	assert.ErrorIs(t, n.Edit("title", ""), ErrInvalidContent)

	assert.NoError(t, n.Edit("title", "body"))
	assert.Equal(t, "title", n.Title)
	assert.Equal(t, "body", n.Body)
	assert.Equal(t, "c1", n.CategoryID, "category is untouched")
}
