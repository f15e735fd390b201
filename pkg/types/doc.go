// Package types defines the storage kinds, conversion results, registry
// entities, the Cupboard and Table interfaces, and the standard errors shared
// by the converter, the SQLite backend and the CLI.
package types
