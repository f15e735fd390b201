package types

import "errors"

// Cupboard is the storage handle the content layer works against: the data
// type registry, the language table and the property value table, reached
// by name once attached.
type Cupboard interface {
	// GetTable returns one of the tables named in StandardTableNames.
	// Returns ErrTableNotFound for any other name.
	GetTable(name string) (Table, error)

	// Attach opens the store in config.DataDir, creating the directory and
	// empty tables on first use. Returns ErrAlreadyAttached when attached.
	Attach(config Config) error

	// Detach closes the store. Calling it again is a no-op. Afterwards every
	// table operation returns ErrCupboardDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrCupboardDetached = errors.New("store is detached")
	ErrAlreadyAttached  = errors.New("store is already attached")
	ErrTableNotFound    = errors.New("table not found")
)
