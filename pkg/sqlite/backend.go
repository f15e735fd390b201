// Package sqlite provides the public API for the SQLite backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/propedit/internal/sqlite"
	"github.com/mesh-intelligence/propedit/pkg/types"
)

// Store is a Cupboard that also resolves languages for XML export.
type Store interface {
	types.Cupboard
	types.LanguageLookup
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".propedit-db",
//	})
//	defer backend.Detach()
func NewBackend() Store {
	return sqlite.NewBackend()
}
