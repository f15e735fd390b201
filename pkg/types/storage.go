package types

import "strings"

// StorageKind is the canonical persisted type category of a field's value.
// It decides which Go type a stored value has.
type StorageKind string

// Storage kinds. The canonical stored type is noted per kind.
const (
	KindText     StorageKind = "text"     // string
	KindLongText StorageKind = "longtext" // string
	KindInteger  StorageKind = "integer"  // int32
	KindDecimal  StorageKind = "decimal"  // decimal.Decimal
	KindDate     StorageKind = "date"     // time.Time
)

// StorageKinds lists every recognized kind in declaration order.
var StorageKinds = []StorageKind{KindText, KindLongText, KindInteger, KindDecimal, KindDate}

// validStorageKinds is the set of recognized storage kinds.
var validStorageKinds = map[StorageKind]bool{
	KindText:     true,
	KindLongText: true,
	KindInteger:  true,
	KindDecimal:  true,
	KindDate:     true,
}

// IsValid reports whether k is a recognized storage kind.
func (k StorageKind) IsValid() bool {
	return validStorageKinds[k]
}

// IsText reports whether k stores strings.
func (k StorageKind) IsText() bool {
	return k == KindText || k == KindLongText
}

// IsNumeric reports whether k stores numbers.
func (k StorageKind) IsNumeric() bool {
	return k == KindInteger || k == KindDecimal
}

// ParseStorageKind converts a case-insensitive name into a StorageKind.
// Returns ErrInvalidStorageKind if the name is not recognized.
func ParseStorageKind(name string) (StorageKind, error) {
	k := StorageKind(strings.ToLower(strings.TrimSpace(name)))
	if !k.IsValid() {
		return "", ErrInvalidStorageKind
	}
	return k, nil
}
