package types

import "time"

// PropertyValue is one variant of a property's value. An empty LanguageID
// marks the culture-neutral value. Edited and Published carry stored values
// whose runtime types match the property's StorageKind, or nil.
type PropertyValue struct {
	ValueID       string    // UUID v7, generated on creation.
	PropertyAlias string    // Alias of the data type the value belongs to.
	LanguageID    string    // Language id, or "" for invariant values.
	Segment       string    // Optional segment key.
	Edited        any       // Current draft value.
	Published     any       // Last published value.
	UpdatedAt     time.Time // Timestamp of last modification.
}

// Value returns the published or the edited side.
func (v PropertyValue) Value(published bool) any {
	if published {
		return v.Published
	}
	return v.Edited
}

// Property groups all variants of one field's value.
type Property struct {
	Alias       string
	StorageKind StorageKind
	Values      []PropertyValue
}
