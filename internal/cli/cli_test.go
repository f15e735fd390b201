package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// env is an isolated config and data directory pair for one test.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	return env{
		configDir: filepath.Join(t.TempDir(), "config"),
		dataDir:   filepath.Join(t.TempDir(), "data"),
	}
}

// run executes propedit with args and returns stdout.
func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return buf.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "propedit %s", strings.Join(args, " "))
	return out
}

func TestVersion(t *testing.T) {
	out := newEnv(t).mustRun(t, "version")
	assert.Contains(t, out, "propedit v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInitCreatesConfigAndData(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init")
	assert.Contains(t, out, e.dataDir)

	assert.FileExists(t, filepath.Join(e.configDir, "config.yaml"))
	for _, f := range []string{"data_types.jsonl", "languages.jsonl", "property_values.jsonl"} {
		assert.FileExists(t, filepath.Join(e.dataDir, f))
	}
}

func TestConvert(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"integer stored", []string{"convert", "--kind", "integer", "42"}, "42"},
		{"integer from json number", []string{"convert", "--kind", "integer", "--json-value", "7"}, "7"},
		{"decimal export", []string{"convert", "--kind", "decimal", "--to", "export", "1.50"}, "1.5"},
		{"date editor", []string{"convert", "--kind", "date", "--to", "editor", "2024-03-01T10:20:30Z"}, "2024-03-01 10:20:30"},
		{"date export", []string{"convert", "--kind", "date", "--to", "export", "2024-03-01 10:20:30"}, "2024-03-01T10:20:30"},
		{"text", []string{"convert", "--kind", "text", "hello"}, "hello"},
		{"json value as text", []string{"convert", "--kind", "longtext", "--json-value", `{"a":1}`}, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.mustRun(t, tt.args...)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestConvertFailures(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"not a number", []string{"convert", "--kind", "integer", "abc"}, errConversionFailed},
		{"fractional text", []string{"convert", "--kind", "integer", "7.5"}, errConversionFailed},
		{"outside 32-bit range", []string{"convert", "--kind", "integer", "3000000000"}, errConversionFailed},
		{"not a date", []string{"convert", "--kind", "date", "soon"}, errConversionFailed},
		{"unknown kind", []string{"convert", "--kind", "blob", "x"}, types.ErrInvalidStorageKind},
		{"unknown target", []string{"convert", "--kind", "text", "--to", "yaml", "x"}, errUsage},
		{"bad json", []string{"convert", "--kind", "text", "--json-value", "{"}, errUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.run(t, tt.args...)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestConvertJSONOutput(t *testing.T) {
	out := newEnv(t).mustRun(t, "--json", "convert", "--kind", "integer", "12")
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "integer", got["kind"])
	assert.EqualValues(t, 12, got["stored"])
}

func TestDataTypeLifecycle(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "datatype", "add", "Page Title", "--kind", "text", "--name", "Page title")
	e.mustRun(t, "datatype", "add", "price", "--kind", "decimal")

	out := e.mustRun(t, "--json", "datatype", "list")
	var listed []types.DataType
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "pageTitle", listed[0].Alias)
	assert.Equal(t, types.KindText, listed[0].StorageKind)

	out = e.mustRun(t, "datatype", "list", "--kind", "decimal")
	assert.Contains(t, out, "price")
	assert.NotContains(t, out, "pageTitle")

	_, err := e.run(t, "datatype", "add", "price", "--kind", "integer")
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	_, err = e.run(t, "datatype", "add", "1st field", "--kind", "text")
	assert.ErrorIs(t, err, types.ErrInvalidName)
	assert.Equal(t, exitUserError, exitCode(err))

	e.mustRun(t, "datatype", "delete", "price")
	_, err = e.run(t, "datatype", "delete", "price")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestValueSetGetPublishExport(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "datatype", "add", "title", "--kind", "text")
	e.mustRun(t, "datatype", "add", "count", "--kind", "integer")
	e.mustRun(t, "language", "add", "en-US", "--name", "English")

	assert.Equal(t, "Hello & welcome", strings.TrimSpace(e.mustRun(t, "value", "set", "title", "Hello & welcome", "--lang", "en-US")))
	assert.Equal(t, "5", strings.TrimSpace(e.mustRun(t, "value", "set", "count", "5")))
	assert.Equal(t, "null", strings.TrimSpace(e.mustRun(t, "value", "set", "count", "many", "--segment", "mobile")))

	assert.Equal(t, "5", strings.TrimSpace(e.mustRun(t, "value", "get", "count")))
	assert.Equal(t, "", strings.TrimSpace(e.mustRun(t, "value", "get", "count", "--segment", "mobile")))

	// Nothing published yet.
	doc, err := xmlquery.Parse(strings.NewReader(e.mustRun(t, "export", "title", "--published")))
	require.NoError(t, err)
	assert.Empty(t, xmlquery.Find(doc, "//title/value"))

	e.mustRun(t, "value", "publish", "title", "--lang", "en-US")
	doc, err = xmlquery.Parse(strings.NewReader(e.mustRun(t, "export", "title", "--published")))
	require.NoError(t, err)
	v := xmlquery.FindOne(doc, "//title/value")
	require.NotNil(t, v)
	assert.Equal(t, "en-US", v.SelectAttr("lang"))
	assert.Equal(t, "Hello & welcome", v.InnerText())

	doc, err = xmlquery.Parse(strings.NewReader(e.mustRun(t, "export")))
	require.NoError(t, err)
	require.NotNil(t, xmlquery.FindOne(doc, "/content"))
	assert.Equal(t, "5", xmlquery.FindOne(doc, "/content/count/value").InnerText())
}

func TestValueErrors(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "datatype", "add", "title", "--kind", "text")

	_, err := e.run(t, "value", "set", "missing", "x")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = e.run(t, "value", "set", "title", "x", "--lang", "fr-FR")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = e.run(t, "value", "publish", "title")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLogLevelPrecedence(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "--log-level", "loud", "convert", "--kind", "text", "x")
	require.ErrorIs(t, err, errUsage)

	t.Setenv("PROPEDIT_LOG_LEVEL", "verbose")
	_, err = e.run(t, "convert", "--kind", "text", "x")
	require.ErrorIs(t, err, errUsage)

	// The flag wins over the environment.
	e.mustRun(t, "--log-level", "debug", "convert", "--kind", "text", "x")
}

func TestConfigDataDir(t *testing.T) {
	e := newEnv(t)
	custom := filepath.Join(t.TempDir(), "from-config")
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	cfg := fmt.Sprintf("backend: sqlite\ndata_dir: %s\n", custom)
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(cfg), 0o644))

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config-dir", e.configDir, "init"})
	require.NoError(t, root.Execute())
	assert.FileExists(t, filepath.Join(custom, "data_types.jsonl"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(fmt.Errorf("wrap: %w", types.ErrNotFound)))
	assert.Equal(t, exitUserError, exitCode(errConversionFailed))
	assert.Equal(t, exitSysError, exitCode(types.ErrCupboardDetached))
	assert.Equal(t, exitSysError, exitCode(os.ErrPermission))
}
