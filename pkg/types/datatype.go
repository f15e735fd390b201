package types

import (
	"time"
	"unicode"
)

// DataType declares the storage kind for a field. Content values are
// converted according to the kind of the data type registered under the
// property alias.
type DataType struct {
	DataTypeID  string      `json:"data_type_id"` // UUID v7, generated on creation.
	Alias       string      `json:"alias"`        // Unique lowerCamelCase alias (required).
	Name        string      `json:"name"`         // Display name; defaults to the alias.
	EditorAlias string      `json:"editor_alias"` // Alias of the editor that produces values (optional).
	StorageKind StorageKind `json:"storage_kind"` // One of the Kind constants.
	CreatedAt   time.Time   `json:"created_at"`   // Timestamp of creation.
}

// Validate checks the fields the registry requires before persisting. The
// alias becomes an XML element name on export, so it must be one.
func (d *DataType) Validate() error {
	if !IsXMLName(d.Alias) {
		return ErrInvalidName
	}
	if !d.StorageKind.IsValid() {
		return ErrInvalidStorageKind
	}
	return nil
}

// IsXMLName reports whether s is a non-colonized XML name: a letter or '_'
// followed by letters, digits, '_', '-' or '.'.
func IsXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
