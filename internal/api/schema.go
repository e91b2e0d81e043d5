package api

import (
	"github.com/graphql-go/graphql"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// buildSchema assembles the schema bottom up: Tag, then Note (which lists
// its tags), then Category (which lists its notes). Cross references are
// resolver lookups keyed by the parent id.
func (a *API) buildSchema() (graphql.Schema, error) {
	tagType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tag",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Tag).TagID, nil
				},
			},
			"tagName": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Tag).Name, nil
				},
			},
			"tagColor": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Tag).Color, nil
				},
			},
			"noteId": &graphql.Field{
				Type: graphql.NewList(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Tag).NoteIDs, nil
				},
			},
		},
	})

	noteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Note",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Note).NoteID, nil
				},
			},
			"noteTitle": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Note).Title, nil
				},
			},
			"noteBody": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Note).Body, nil
				},
			},
			"categoryId": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Note).CategoryID, nil
				},
			},
			"tags": &graphql.Field{
				Type:    graphql.NewList(tagType),
				Resolve: a.resolveNoteTags,
			},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Category).CategoryID, nil
				},
			},
			"categoryName": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*types.Category).Name, nil
				},
			},
			"notes": &graphql.Field{
				Type:    graphql.NewList(noteType),
				Resolve: a.resolveCategoryNotes,
			},
		},
	})

	optionalID := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.ID},
	}
	requiredID := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}
	nonNull := func(t graphql.Input) *graphql.ArgumentConfig {
		return &graphql.ArgumentConfig{Type: graphql.NewNonNull(t)}
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"category":   &graphql.Field{Type: categoryType, Args: optionalID, Resolve: a.resolveCategory},
			"note":       &graphql.Field{Type: noteType, Args: optionalID, Resolve: a.resolveNote},
			"tag":        &graphql.Field{Type: tagType, Args: optionalID, Resolve: a.resolveTag},
			"categories": &graphql.Field{Type: graphql.NewList(categoryType), Resolve: a.resolveCategories},
			"notes":      &graphql.Field{Type: graphql.NewList(noteType), Resolve: a.resolveNotes},
			"tags":       &graphql.Field{Type: graphql.NewList(tagType), Resolve: a.resolveTags},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"categoryName": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: a.addCategory,
			},
			"updateCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id":           nonNull(graphql.ID),
					"categoryName": nonNull(graphql.String),
				},
				Resolve: a.lenient("updateCategory", a.updateCategory),
			},
			"deleteCategory": &graphql.Field{
				Type:    categoryType,
				Args:    requiredID,
				Resolve: a.lenient("deleteCategory", a.deleteCategory),
			},
			"addNote": &graphql.Field{
				Type: noteType,
				Args: graphql.FieldConfigArgument{
					"noteTitle":  nonNull(graphql.String),
					"noteBody":   nonNull(graphql.String),
					"categoryId": nonNull(graphql.ID),
				},
				Resolve: a.addNote,
			},
			"updateNote": &graphql.Field{
				Type: noteType,
				Args: graphql.FieldConfigArgument{
					"id":        nonNull(graphql.ID),
					"noteTitle": nonNull(graphql.String),
					"noteBody":  nonNull(graphql.String),
				},
				Resolve: a.lenient("updateNote", a.updateNote),
			},
			"deleteNote": &graphql.Field{
				Type:    noteType,
				Args:    requiredID,
				Resolve: a.lenient("deleteNote", a.deleteNote),
			},
			"addTag": &graphql.Field{
				Type: tagType,
				Args: graphql.FieldConfigArgument{
					"tagName":  nonNull(graphql.String),
					"tagColor": nonNull(graphql.String),
					"noteId":   &graphql.ArgumentConfig{Type: graphql.NewList(graphql.ID)},
				},
				Resolve: a.addTag,
			},
			"updateTag": &graphql.Field{
				Type: tagType,
				Args: graphql.FieldConfigArgument{
					"tagId":    nonNull(graphql.ID),
					"tagName":  nonNull(graphql.String),
					"tagColor": nonNull(graphql.String),
				},
				Resolve: a.lenient("updateTag", a.updateTag),
			},
			"updateTagWithNoteId": &graphql.Field{
				Type: tagType,
				Args: graphql.FieldConfigArgument{
					"tagId":  nonNull(graphql.ID),
					"noteId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: a.lenient("updateTagWithNoteId", a.addNoteToTag),
			},
			"deleteNoteIdFromTag": &graphql.Field{
				Type: tagType,
				Args: graphql.FieldConfigArgument{
					"tagId":  nonNull(graphql.ID),
					"noteID": nonNull(graphql.ID),
				},
				Resolve: a.lenient("deleteNoteIdFromTag", a.removeNoteFromTag),
			},
			"deleteTag": &graphql.Field{
				Type:    tagType,
				Args:    requiredID,
				Resolve: a.lenient("deleteTag", a.deleteTag),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
