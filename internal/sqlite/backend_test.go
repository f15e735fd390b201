// Tests for SQLite backend lifecycle and the language lookup.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// attachTemp attaches a backend to a fresh temp dir and detaches on cleanup.
func attachTemp(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func mustTable(t *testing.T, b *Backend, name string) types.Table {
	t.Helper()
	tbl, err := b.GetTable(name)
	require.NoError(t, err)
	return tbl
}

func TestBackend_Attach(t *testing.T) {
	b, dir := attachTemp(t)

	_, err := os.Stat(filepath.Join(dir, dbFileName))
	assert.NoError(t, err, "database file should exist")

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	tbl, err := b.GetTable(types.LanguagesTable)
	require.NoError(t, err)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "Detach is idempotent")

	_, err = b.GetTable(types.LanguagesTable)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
	_, err = tbl.Fetch(nil)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
}

func TestBackend_GetTable(t *testing.T) {
	b, _ := attachTemp(t)
	for _, name := range types.StandardTableNames {
		_, err := b.GetTable(name)
		assert.NoError(t, err, name)
	}
	_, err := b.GetTable("pages")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestBackend_GetLanguageByID(t *testing.T) {
	b, _ := attachTemp(t)
	id, err := mustTable(t, b, types.LanguagesTable).Set("", &types.Language{IsoCode: "en-US", Name: "English"})
	require.NoError(t, err)

	lang, err := b.GetLanguageByID(id)
	require.NoError(t, err)
	assert.Equal(t, "en-US", lang.IsoCode)
	assert.Equal(t, "English", lang.Name)

	_, err = b.GetLanguageByID("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
