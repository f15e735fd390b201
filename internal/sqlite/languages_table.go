// This file implements the languages table.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

var _ types.Table = (*languagesTable)(nil)

type languagesTable struct {
	backend *Backend
}

const languageColumns = "language_id, iso_code, name, created_at"

// Get retrieves a language by ID.
func (lt *languagesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := lt.backend.conn()
	if err != nil {
		return nil, err
	}
	l, err := hydrateLanguage(db.QueryRow("SELECT "+languageColumns+" FROM languages WHERE language_id = ?", id))
	if err != nil {
		return nil, notFound(err, "language", id)
	}
	return l, nil
}

// Set creates or updates a language. The ISO code is required and unique.
func (lt *languagesTable) Set(id string, data any) (string, error) {
	l, ok := data.(*types.Language)
	if !ok {
		return "", types.ErrInvalidData
	}
	l.IsoCode = strings.TrimSpace(l.IsoCode)
	if l.IsoCode == "" {
		return "", types.ErrInvalidName
	}

	db, err := lt.backend.conn()
	if err != nil {
		return "", err
	}

	if id == "" {
		id = generateUUID()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	l.LanguageID = id

	var dupID string
	err = db.QueryRow(
		"SELECT language_id FROM languages WHERE iso_code = ? COLLATE NOCASE AND language_id != ?",
		l.IsoCode, id,
	).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicateName
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking language uniqueness: %w", err)
	}

	var name *string
	if l.Name != "" {
		name = &l.Name
	}
	_, err = db.Exec(
		`INSERT INTO languages (language_id, iso_code, name, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(language_id) DO UPDATE SET iso_code = excluded.iso_code, name = excluded.name`,
		id, l.IsoCode, name, l.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("persisting language: %w", err)
	}

	if err := persistTables(lt.backend, types.LanguagesTable); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a language and every property value varying by it.
func (lt *languagesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := lt.backend.conn()
	if err != nil {
		return err
	}

	var exists int
	if err := db.QueryRow("SELECT 1 FROM languages WHERE language_id = ?", id).Scan(&exists); err != nil {
		return notFound(err, "language", id)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM property_values WHERE language_id = ?", id); err != nil {
		return fmt.Errorf("deleting property values: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM languages WHERE language_id = ?", id); err != nil {
		return fmt.Errorf("deleting language: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing language deletion: %w", err)
	}

	return persistTables(lt.backend, types.LanguagesTable, types.PropertyValuesTable)
}

// Fetch queries languages ordered by ISO code. Filters: iso_code, limit,
// offset.
func (lt *languagesTable) Fetch(filter types.Filter) ([]any, error) {
	db, err := lt.backend.conn()
	if err != nil {
		return nil, err
	}
	where, args, err := buildWhere(filter, "iso_code")
	if err != nil {
		return nil, err
	}
	page, err := buildPage(filter)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT "+languageColumns+" FROM languages"+where+" ORDER BY iso_code ASC"+page, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching languages: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		l, err := hydrateLanguage(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating language: %w", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating languages: %w", err)
	}
	return results, nil
}

func hydrateLanguage(row scanner) (*types.Language, error) {
	var l types.Language
	var name sql.NullString
	var createdAt string
	if err := row.Scan(&l.LanguageID, &l.IsoCode, &name, &createdAt); err != nil {
		return nil, err
	}
	l.Name = name.String
	var err error
	l.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &l, nil
}
