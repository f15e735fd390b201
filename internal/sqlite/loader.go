// This file implements JSONL loading for startup.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// tableMapping ties a JSONL file to its SQLite table and column list.
type tableMapping struct {
	file    string
	table   string
	columns []string
}

// jsonlTableMapping lists every persisted table.
var jsonlTableMapping = []tableMapping{
	{"data_types.jsonl", "data_types", []string{"data_type_id", "alias", "name", "editor_alias", "storage_kind", "created_at"}},
	{"languages.jsonl", "languages", []string{"language_id", "iso_code", "name", "created_at"}},
	{"property_values.jsonl", "property_values", []string{
		"value_id", "property_alias", "language_id", "segment", "storage_kind",
		"edited_int", "edited_decimal", "edited_date", "edited_text",
		"published_int", "published_decimal", "published_date", "published_text",
		"updated_at",
	}},
}

func mappingFor(table string) (tableMapping, bool) {
	return lo.Find(jsonlTableMapping, func(m tableMapping) bool {
		return m.table == table
	})
}

// loadAllJSONL reads each JSONL file from dataDir and inserts records into the
// corresponding SQLite tables. Loading is transactional: all succeed or the
// database remains empty. Malformed lines and records that violate
// constraints are skipped; unknown fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only
// columns listed in the mapping are extracted.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	placeholders := lo.Map(columns, func(string, int) string { return "?" })
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		dec := json.NewDecoder(strings.NewReader(string(rec)))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			switch v := obj[col].(type) {
			case json.Number:
				if n, err := v.Int64(); err == nil {
					args[i] = n
				} else {
					args[i] = v.String()
				}
			case map[string]any, []any:
				// Text columns never hold structured JSON; skip the field.
				args[i] = nil
			default:
				args[i] = v
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}
	return nil
}
