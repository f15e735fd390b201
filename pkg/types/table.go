package types

import "errors"

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter Filter) ([]any, error)
}

// Filter selects entities in Fetch. Keys are column names; "limit" and
// "offset" page the result.
type Filter map[string]any

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidName   = errors.New("invalid name")
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidFilter = errors.New("invalid filter value type")
	ErrTypeMismatch  = errors.New("type mismatch")
)

// Conversion errors.
var (
	// ErrInvalidStorageKind is returned when user or file input names an
	// unknown kind.
	ErrInvalidStorageKind = errors.New("invalid storage kind")

	// ErrUnsupportedStorageKind is returned by the converter for a kind it
	// has no conversion for. It signals a configuration defect, not bad data.
	ErrUnsupportedStorageKind = errors.New("unsupported storage kind")
)
