// This file implements the data type registry table.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stoewer/go-strcase"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

var _ types.Table = (*dataTypesTable)(nil)

type dataTypesTable struct {
	backend *Backend
}

const dataTypeColumns = "data_type_id, alias, name, editor_alias, storage_kind, created_at"

// NormalizeAlias turns a display alias such as "Body Text" or "body_text"
// into the lowerCamelCase form the registry stores.
func NormalizeAlias(alias string) string {
	return strcase.LowerCamelCase(strings.TrimSpace(alias))
}

// Get retrieves a data type by ID.
func (dt *dataTypesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := dt.backend.conn()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow("SELECT "+dataTypeColumns+" FROM data_types WHERE data_type_id = ?", id)
	d, err := hydrateDataType(row)
	if err != nil {
		return nil, notFound(err, "data type", id)
	}
	return d, nil
}

// Set creates or updates a data type. The alias is normalized and must be
// unique; the storage kind must be recognized.
func (dt *dataTypesTable) Set(id string, data any) (string, error) {
	d, ok := data.(*types.DataType)
	if !ok {
		return "", types.ErrInvalidData
	}
	d.Alias = NormalizeAlias(d.Alias)
	if err := d.Validate(); err != nil {
		return "", err
	}
	if d.Name == "" {
		d.Name = d.Alias
	}

	db, err := dt.backend.conn()
	if err != nil {
		return "", err
	}

	if id == "" {
		id = generateUUID()
		d.CreatedAt = time.Now().UTC()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	d.DataTypeID = id

	var dupID string
	err = db.QueryRow(
		"SELECT data_type_id FROM data_types WHERE alias = ? AND data_type_id != ?",
		d.Alias, id,
	).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicateName
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking data type alias uniqueness: %w", err)
	}

	if err := dt.checkValuesUnaffected(db, d); err != nil {
		return "", err
	}

	var editorAlias *string
	if d.EditorAlias != "" {
		editorAlias = &d.EditorAlias
	}
	_, err = db.Exec(
		`INSERT INTO data_types (data_type_id, alias, name, editor_alias, storage_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(data_type_id) DO UPDATE SET
		   alias = excluded.alias, name = excluded.name, editor_alias = excluded.editor_alias,
		   storage_kind = excluded.storage_kind`,
		id, d.Alias, d.Name, editorAlias, string(d.StorageKind), d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("persisting data type: %w", err)
	}

	if err := persistTables(dt.backend, types.DataTypesTable); err != nil {
		return "", err
	}
	return id, nil
}

// checkValuesUnaffected rejects an update that changes the alias or storage
// kind of a data type that already has stored values. Those values are typed
// and keyed by the old alias and kind.
func (dt *dataTypesTable) checkValuesUnaffected(db *sql.DB, d *types.DataType) error {
	var alias, kind string
	err := db.QueryRow(
		"SELECT alias, storage_kind FROM data_types WHERE data_type_id = ?", d.DataTypeID,
	).Scan(&alias, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading data type %s: %w", d.DataTypeID, err)
	}
	if alias == d.Alias && kind == string(d.StorageKind) {
		return nil
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM property_values WHERE property_alias = ?", alias).Scan(&n); err != nil {
		return fmt.Errorf("counting values of %s: %w", alias, err)
	}
	if n > 0 {
		return fmt.Errorf("data type %s has %d stored values; alias and storage kind are fixed: %w",
			alias, n, types.ErrInvalidData)
	}
	return nil
}

// Delete removes a data type and every property value stored under its alias.
func (dt *dataTypesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := dt.backend.conn()
	if err != nil {
		return err
	}

	var alias string
	if err := db.QueryRow("SELECT alias FROM data_types WHERE data_type_id = ?", id).Scan(&alias); err != nil {
		return notFound(err, "data type", id)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM property_values WHERE property_alias = ?", alias); err != nil {
		return fmt.Errorf("deleting property values: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM data_types WHERE data_type_id = ?", id); err != nil {
		return fmt.Errorf("deleting data type: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing data type deletion: %w", err)
	}

	return persistTables(dt.backend, types.DataTypesTable, types.PropertyValuesTable)
}

// Fetch queries data types ordered by alias. Filters: alias, storage_kind,
// limit, offset.
func (dt *dataTypesTable) Fetch(filter types.Filter) ([]any, error) {
	db, err := dt.backend.conn()
	if err != nil {
		return nil, err
	}

	if alias, ok := filter["alias"].(string); ok {
		filter = withValue(filter, "alias", NormalizeAlias(alias))
	}
	where, args, err := buildWhere(filter, "alias", "storage_kind")
	if err != nil {
		return nil, err
	}
	page, err := buildPage(filter)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT "+dataTypeColumns+" FROM data_types"+where+" ORDER BY alias ASC"+page, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching data types: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		d, err := hydrateDataType(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating data type: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating data types: %w", err)
	}
	return results, nil
}

// hydrateDataType converts a row into a *types.DataType.
func hydrateDataType(row scanner) (*types.DataType, error) {
	var d types.DataType
	var editorAlias sql.NullString
	var kind, createdAt string
	if err := row.Scan(&d.DataTypeID, &d.Alias, &d.Name, &editorAlias, &kind, &createdAt); err != nil {
		return nil, err
	}
	d.EditorAlias = editorAlias.String
	d.StorageKind = types.StorageKind(kind)
	var err error
	d.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}
