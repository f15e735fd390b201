// Package sqlite implements the SQLite backend for the propedit registry
// and property value store.
package sqlite

// Schema DDL for all tables.
const (
	createDataTypes = `CREATE TABLE data_types (
    data_type_id TEXT PRIMARY KEY,
    alias TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    editor_alias TEXT,
    storage_kind TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createLanguages = `CREATE TABLE languages (
    language_id TEXT PRIMARY KEY,
    iso_code TEXT NOT NULL UNIQUE,
    name TEXT,
    created_at TEXT NOT NULL
);`

	// Stored values are split into one column per storage kind, for the
	// edited and the published side. At most one column per side is set.
	createPropertyValues = `CREATE TABLE property_values (
    value_id TEXT PRIMARY KEY,
    property_alias TEXT NOT NULL,
    language_id TEXT NOT NULL DEFAULT '',
    segment TEXT NOT NULL DEFAULT '',
    storage_kind TEXT NOT NULL,
    edited_int INTEGER,
    edited_decimal TEXT,
    edited_date TEXT,
    edited_text TEXT,
    published_int INTEGER,
    published_decimal TEXT,
    published_date TEXT,
    published_text TEXT,
    updated_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxDataTypesKind          = `CREATE INDEX idx_data_types_kind ON data_types(storage_kind);`
	idxPropertyValuesVariant  = `CREATE UNIQUE INDEX idx_property_values_variant ON property_values(property_alias, language_id, segment);`
	idxPropertyValuesLanguage = `CREATE INDEX idx_property_values_language ON property_values(language_id);`
)

// schemaDDL lists all CREATE statements in execution order.
var schemaDDL = []string{
	createDataTypes,
	createLanguages,
	createPropertyValues,
	idxDataTypesKind,
	idxPropertyValuesVariant,
	idxPropertyValuesLanguage,
}
