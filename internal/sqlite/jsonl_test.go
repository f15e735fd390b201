// Tests for JSONL persistence and reload.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

func TestJSONLFilesCreatedOnAttach(t *testing.T) {
	_, dir := attachTemp(t)
	for _, m := range jsonlTableMapping {
		info, err := os.Stat(filepath.Join(dir, m.file))
		require.NoError(t, err, m.file)
		assert.Zero(t, info.Size(), "%s should start empty", m.file)
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	dataTypes := mustTable(t, b, types.DataTypesTable)
	languages := mustTable(t, b, types.LanguagesTable)
	values := mustTable(t, b, types.PropertyValuesTable)

	_, err := dataTypes.Set("", &types.DataType{Alias: "count", StorageKind: types.KindInteger, EditorAlias: "numeric"})
	require.NoError(t, err)
	_, err = dataTypes.Set("", &types.DataType{Alias: "price", StorageKind: types.KindDecimal})
	require.NoError(t, err)
	_, err = dataTypes.Set("", &types.DataType{Alias: "released", StorageKind: types.KindDate})
	require.NoError(t, err)
	langID, err := languages.Set("", &types.Language{IsoCode: "da-DK"})
	require.NoError(t, err)

	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	countID, err := values.Set("", &types.PropertyValue{PropertyAlias: "count", Edited: int32(42), Published: int32(41)})
	require.NoError(t, err)
	priceID, err := values.Set("", &types.PropertyValue{PropertyAlias: "price", LanguageID: langID, Segment: "b2b", Edited: decimal.RequireFromString("1234.5")})
	require.NoError(t, err)
	dateID, err := values.Set("", &types.PropertyValue{PropertyAlias: "released", Edited: when})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	raw, err := os.ReadFile(filepath.Join(dir, "property_values.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(raw), "\n"))
	assert.Contains(t, string(raw), `"edited_decimal":"1234.5"`)

	b2 := NewBackend()
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()
	values2 := mustTable(t, b2, types.PropertyValuesTable)

	got, err := values2.Get(countID)
	require.NoError(t, err)
	assert.Equal(t, int32(42), got.(*types.PropertyValue).Edited)
	assert.Equal(t, int32(41), got.(*types.PropertyValue).Published)

	got, err = values2.Get(priceID)
	require.NoError(t, err)
	price := got.(*types.PropertyValue)
	assert.Equal(t, langID, price.LanguageID)
	assert.Equal(t, "b2b", price.Segment)
	assert.Equal(t, "1234.5", price.Edited.(decimal.Decimal).String())

	got, err = values2.Get(dateID)
	require.NoError(t, err)
	assert.True(t, when.Equal(got.(*types.PropertyValue).Edited.(time.Time)))

	dt, err := mustTable(t, b2, types.DataTypesTable).Fetch(types.Filter{"alias": "count"})
	require.NoError(t, err)
	require.Len(t, dt, 1)
	assert.Equal(t, "numeric", dt[0].(*types.DataType).EditorAlias)

	lang, err := b2.GetLanguageByID(langID)
	require.NoError(t, err)
	assert.Equal(t, "da-DK", lang.IsoCode)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"language_id":"l1","iso_code":"en-US","created_at":"2024-01-01T00:00:00Z"}
not json at all
{"language_id":"l2","iso_code":"en-US","created_at":"2024-01-01T00:00:00Z"}
{"language_id":"l3","iso_code":"fr-FR","created_at":"2024-01-01T00:00:00Z","future_field":true}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "languages.jsonl"), []byte(content), 0o644))

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	all, err := mustTable(t, b, types.LanguagesTable).Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 2, "malformed line and duplicate iso code are skipped")
	assert.Equal(t, "l1", all[0].(*types.Language).LanguageID)
	assert.Equal(t, "l3", all[1].(*types.Language).LanguageID)
}

func TestWriteJSONLAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.jsonl")
	require.NoError(t, writeJSONL(path, nil))
	require.NoError(t, writeJSONL(path, []json.RawMessage{json.RawMessage(`{"a":1}`)}))

	records, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"a":1}`, string(records[0]))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
