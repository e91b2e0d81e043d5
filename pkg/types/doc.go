// Package types defines the Store and Table interfaces, the Category, Note
// and Tag entities, and the standard error values for the notebook storage
// layer. Backends implement Store; callers reach entities through Tables.
package types
