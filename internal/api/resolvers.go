package api

import (
	"github.com/graphql-go/graphql"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// stringArg returns a string argument, or "" when it is absent or null.
func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

// hasArg reports whether a non-null value was given for name.
func hasArg(p graphql.ResolveParams, name string) bool {
	return p.Args[name] != nil
}

// stringListArg returns a list argument. Null elements become "" so the
// service rejects them.
func stringListArg(p graphql.ResolveParams, name string) []string {
	raw, ok := p.Args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, _ := v.(string)
		out = append(out, s)
	}
	return out
}

// result converts a typed service result into a resolver result. A nil
// pointer becomes an untyped nil so the field resolves to null.
func result[T any](v *T, err error) (interface{}, error) {
	if err != nil {
		return nil, coded(err)
	}
	if v == nil {
		return nil, nil
	}
	return v, nil
}

// list converts a typed slice into a resolver result.
func list[T any](vs []*T, err error) (interface{}, error) {
	if err != nil {
		return nil, coded(err)
	}
	return vs, nil
}

// lenient wraps a mutation resolver so that, under PolicyLenient, failures
// are logged and the field resolves to null.
func (a *API) lenient(field string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		v, err := resolve(p)
		if err != nil && a.policy == PolicyLenient {
			a.logger.WarnContext(p.Context, "mutation failed", "field", field, "error", err)
			return nil, nil
		}
		return v, err
	}
}

func (a *API) resolveCategory(p graphql.ResolveParams) (interface{}, error) {
	if !hasArg(p, "id") {
		return nil, nil
	}
	return result(a.svc.GetCategory(p.Context, stringArg(p, "id")))
}

func (a *API) resolveNote(p graphql.ResolveParams) (interface{}, error) {
	if !hasArg(p, "id") {
		return nil, nil
	}
	return result(a.svc.GetNote(p.Context, stringArg(p, "id")))
}

func (a *API) resolveTag(p graphql.ResolveParams) (interface{}, error) {
	if !hasArg(p, "id") {
		return nil, nil
	}
	return result(a.svc.GetTag(p.Context, stringArg(p, "id")))
}

func (a *API) resolveCategories(p graphql.ResolveParams) (interface{}, error) {
	return list(a.svc.ListCategories(p.Context))
}

func (a *API) resolveNotes(p graphql.ResolveParams) (interface{}, error) {
	return list(a.svc.ListNotes(p.Context))
}

func (a *API) resolveTags(p graphql.ResolveParams) (interface{}, error) {
	return list(a.svc.ListTags(p.Context))
}

func (a *API) resolveCategoryNotes(p graphql.ResolveParams) (interface{}, error) {
	return list(a.svc.NotesOfCategory(p.Context, p.Source.(*types.Category).CategoryID))
}

func (a *API) resolveNoteTags(p graphql.ResolveParams) (interface{}, error) {
	return list(a.svc.TagsOfNote(p.Context, p.Source.(*types.Note).NoteID))
}

func (a *API) addCategory(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.AddCategory(p.Context, stringArg(p, "categoryName")))
}

func (a *API) updateCategory(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.UpdateCategory(p.Context, stringArg(p, "id"), stringArg(p, "categoryName")))
}

func (a *API) deleteCategory(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.DeleteCategory(p.Context, stringArg(p, "id")))
}

func (a *API) addNote(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.AddNote(p.Context,
		stringArg(p, "noteTitle"), stringArg(p, "noteBody"), stringArg(p, "categoryId")))
}

func (a *API) updateNote(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.UpdateNote(p.Context,
		stringArg(p, "id"), stringArg(p, "noteTitle"), stringArg(p, "noteBody")))
}

func (a *API) deleteNote(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.DeleteNote(p.Context, stringArg(p, "id")))
}

func (a *API) addTag(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.AddTag(p.Context,
		stringArg(p, "tagName"), stringArg(p, "tagColor"), stringListArg(p, "noteId")))
}

func (a *API) updateTag(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.UpdateTag(p.Context,
		stringArg(p, "tagId"), stringArg(p, "tagName"), stringArg(p, "tagColor")))
}

func (a *API) addNoteToTag(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.AddNoteToTag(p.Context, stringArg(p, "tagId"), stringArg(p, "noteId")))
}

func (a *API) removeNoteFromTag(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.RemoveNoteFromTag(p.Context, stringArg(p, "tagId"), stringArg(p, "noteID")))
}

func (a *API) deleteTag(p graphql.ResolveParams) (interface{}, error) {
	return result(a.svc.DeleteTag(p.Context, stringArg(p, "id")))
}
