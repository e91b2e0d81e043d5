package types

import (
	"context"
	"errors"
)

// Filter narrows a Fetch. Keys are table specific; an empty or nil
// Filter matches every entity in the table.
//
// Recognized keys:
//
//	categories: "name" (string)
//	notes:      "category_id" (string)
//	tags:       "note_id" (string, matches tags whose note list contains it)
//	all tables: "limit", "offset" (int)
type Filter map[string]any

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(ctx context.Context, id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated and the entity is inserted. When id is set the existing
	// entity is replaced; ErrNotFound is returned if it does not exist.
	// Returns the actual ID used (generated or provided).
	Set(ctx context.Context, id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(ctx context.Context, id string) error

	// Fetch returns all entities matching the filter, oldest first.
	Fetch(ctx context.Context, filter Filter) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidData     = errors.New("invalid entity data")
	ErrInvalidFilter   = errors.New("invalid filter value type")
	ErrVersionConflict = errors.New("entity was modified concurrently")
)

// Entity field errors.
var (
	ErrInvalidName    = errors.New("invalid name")
	ErrInvalidContent = errors.New("content must not be empty")
	ErrInvalidColor   = errors.New("color must not be empty")
)
