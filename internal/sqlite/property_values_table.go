// This file implements the property value table. Values arrive already
// converted to their stored type; the table checks the runtime type against
// the data type's storage kind and splits it into per-kind columns.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

var _ types.Table = (*propertyValuesTable)(nil)

type propertyValuesTable struct {
	backend *Backend
}

const propertyValueColumns = `value_id, property_alias, language_id, segment, storage_kind,
	edited_int, edited_decimal, edited_date, edited_text,
	published_int, published_decimal, published_date, published_text,
	updated_at`

// storedColumns holds one side (edited or published) of a value.
type storedColumns struct {
	Int     sql.NullInt64
	Decimal sql.NullString
	Date    sql.NullString
	Text    sql.NullString
}

// encodeStored splits a stored value into its column. nil leaves every
// column NULL. Returns ErrTypeMismatch when v is not the canonical type of
// kind.
func encodeStored(kind types.StorageKind, v any) (storedColumns, error) {
	var c storedColumns
	if v == nil {
		return c, nil
	}
	switch kind {
	case types.KindText, types.KindLongText:
		s, ok := v.(string)
		if !ok {
			return c, types.ErrTypeMismatch
		}
		c.Text = sql.NullString{String: s, Valid: true}
	case types.KindInteger:
		n, ok := v.(int32)
		if !ok {
			return c, types.ErrTypeMismatch
		}
		c.Int = sql.NullInt64{Int64: int64(n), Valid: true}
	case types.KindDecimal:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return c, types.ErrTypeMismatch
		}
		c.Decimal = sql.NullString{String: d.String(), Valid: true}
	case types.KindDate:
		t, ok := v.(time.Time)
		if !ok {
			return c, types.ErrTypeMismatch
		}
		c.Date = sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
	default:
		return c, types.ErrInvalidStorageKind
	}
	return c, nil
}

// decodeStored rebuilds the canonical stored value from its columns.
func decodeStored(kind types.StorageKind, c storedColumns) (any, error) {
	switch kind {
	case types.KindText, types.KindLongText:
		if c.Text.Valid {
			return c.Text.String, nil
		}
	case types.KindInteger:
		if c.Int.Valid {
			return int32(c.Int.Int64), nil
		}
	case types.KindDecimal:
		if c.Decimal.Valid {
			d, err := decimal.NewFromString(c.Decimal.String)
			if err != nil {
				return nil, fmt.Errorf("parsing decimal column: %w", err)
			}
			return d, nil
		}
	case types.KindDate:
		if c.Date.Valid {
			t, err := time.Parse(time.RFC3339Nano, c.Date.String)
			if err != nil {
				return nil, fmt.Errorf("parsing date column: %w", err)
			}
			return t, nil
		}
	default:
		return nil, types.ErrInvalidStorageKind
	}
	return nil, nil
}

// Get retrieves a property value by ID.
func (pv *propertyValuesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := pv.backend.conn()
	if err != nil {
		return nil, err
	}
	v, err := hydratePropertyValue(db.QueryRow("SELECT "+propertyValueColumns+" FROM property_values WHERE value_id = ?", id))
	if err != nil {
		return nil, notFound(err, "property value", id)
	}
	return v, nil
}

// Set creates or updates the value of one (alias, language, segment)
// variant. With an empty id the existing row for the variant is reused.
// The alias must name a registered data type and a non-empty LanguageID a
// registered language.
func (pv *propertyValuesTable) Set(id string, data any) (string, error) {
	v, ok := data.(*types.PropertyValue)
	if !ok {
		return "", types.ErrInvalidData
	}
	v.PropertyAlias = NormalizeAlias(v.PropertyAlias)
	if v.PropertyAlias == "" {
		return "", types.ErrInvalidName
	}
	db, err := pv.backend.conn()
	if err != nil {
		return "", err
	}

	var kindName string
	if err := db.QueryRow("SELECT storage_kind FROM data_types WHERE alias = ?", v.PropertyAlias).Scan(&kindName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("data type %q: %w", v.PropertyAlias, types.ErrNotFound)
		}
		return "", fmt.Errorf("looking up data type: %w", err)
	}
	kind := types.StorageKind(kindName)

	if v.LanguageID != "" {
		var exists int
		if err := db.QueryRow("SELECT 1 FROM languages WHERE language_id = ?", v.LanguageID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", fmt.Errorf("language %q: %w", v.LanguageID, types.ErrNotFound)
			}
			return "", fmt.Errorf("looking up language: %w", err)
		}
	}

	edited, err := encodeStored(kind, v.Edited)
	if err != nil {
		return "", fmt.Errorf("edited value for %s: %w", v.PropertyAlias, err)
	}
	published, err := encodeStored(kind, v.Published)
	if err != nil {
		return "", fmt.Errorf("published value for %s: %w", v.PropertyAlias, err)
	}

	var variantID string
	err = db.QueryRow(
		"SELECT value_id FROM property_values WHERE property_alias = ? AND language_id = ? AND segment = ?",
		v.PropertyAlias, v.LanguageID, v.Segment,
	).Scan(&variantID)
	switch {
	case err == nil:
		if id == "" {
			id = variantID
		} else if id != variantID {
			return "", types.ErrDuplicateName
		}
	case errors.Is(err, sql.ErrNoRows):
		if id == "" {
			id = generateUUID()
		}
	default:
		return "", fmt.Errorf("looking up value variant: %w", err)
	}

	v.ValueID = id
	v.UpdatedAt = time.Now().UTC()
	_, err = db.Exec(
		`INSERT INTO property_values (`+propertyValueColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(value_id) DO UPDATE SET
		   property_alias = excluded.property_alias, language_id = excluded.language_id,
		   segment = excluded.segment, storage_kind = excluded.storage_kind,
		   edited_int = excluded.edited_int, edited_decimal = excluded.edited_decimal,
		   edited_date = excluded.edited_date, edited_text = excluded.edited_text,
		   published_int = excluded.published_int, published_decimal = excluded.published_decimal,
		   published_date = excluded.published_date, published_text = excluded.published_text,
		   updated_at = excluded.updated_at`,
		id, v.PropertyAlias, v.LanguageID, v.Segment, string(kind),
		edited.Int, edited.Decimal, edited.Date, edited.Text,
		published.Int, published.Decimal, published.Date, published.Text,
		v.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("persisting property value: %w", err)
	}

	if err := persistTables(pv.backend, types.PropertyValuesTable); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a property value by ID.
func (pv *propertyValuesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := pv.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec("DELETE FROM property_values WHERE value_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property value: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrNotFound
	}
	return persistTables(pv.backend, types.PropertyValuesTable)
}

// Fetch queries property values ordered by alias, language and segment.
// Filters: property_alias, language_id, segment, limit, offset.
func (pv *propertyValuesTable) Fetch(filter types.Filter) ([]any, error) {
	db, err := pv.backend.conn()
	if err != nil {
		return nil, err
	}
	where, args, err := buildWhere(filter, "property_alias", "language_id", "segment")
	if err != nil {
		return nil, err
	}
	page, err := buildPage(filter)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(
		"SELECT "+propertyValueColumns+" FROM property_values"+where+
			" ORDER BY property_alias ASC, language_id ASC, segment ASC"+page,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching property values: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		v, err := hydratePropertyValue(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating property value: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property values: %w", err)
	}
	return results, nil
}

func hydratePropertyValue(row scanner) (*types.PropertyValue, error) {
	var v types.PropertyValue
	var kindName, updatedAt string
	var edited, published storedColumns
	if err := row.Scan(
		&v.ValueID, &v.PropertyAlias, &v.LanguageID, &v.Segment, &kindName,
		&edited.Int, &edited.Decimal, &edited.Date, &edited.Text,
		&published.Int, &published.Decimal, &published.Date, &published.Text,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	kind := types.StorageKind(kindName)
	var err error
	if v.Edited, err = decodeStored(kind, edited); err != nil {
		return nil, err
	}
	if v.Published, err = decodeStored(kind, published); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &v, nil
}
