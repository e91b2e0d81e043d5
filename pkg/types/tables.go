package types

// Standard table names for Store.GetTable.
const (
	CategoriesTable = "categories"
	NotesTable      = "notes"
	TagsTable       = "tags"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	CategoriesTable,
	NotesTable,
	TagsTable,
}
