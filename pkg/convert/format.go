package convert

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts used by the invariant formatter.
const (
	EditorDateLayout = "2006-01-02 15:04:05"
	ExportDateLayout = "2006-01-02T15:04:05"
)

// parseDateLayouts are tried in order when a string is coerced to a date.
var parseDateLayouts = []string{
	EditorDateLayout,
	time.RFC3339Nano,
	ExportDateLayout,
	"2006-01-02 15:04",
	"2006-01-02",
}

// Formatter renders and parses the culture-sensitive parts of a value.
type Formatter interface {
	// FormatDecimal renders a number for the editor and for export.
	FormatDecimal(d decimal.Decimal) string

	// FormatEditorDate renders a date for the editor.
	FormatEditorDate(t time.Time) string

	// FormatExportDate renders a date for text and XML export.
	FormatExportDate(t time.Time) string

	// ParseDate parses an editor-supplied date string.
	ParseDate(s string) (time.Time, bool)
}

// InvariantFormatter formats independently of the host locale: numbers use a
// dot separator and never an exponent, dates use fixed layouts.
type InvariantFormatter struct{}

var _ Formatter = InvariantFormatter{}

// FormatDecimal returns d in plain decimal notation with a dot separator.
func (InvariantFormatter) FormatDecimal(d decimal.Decimal) string {
	return d.String()
}

// FormatEditorDate returns t as "yyyy-MM-dd HH:mm:ss".
func (InvariantFormatter) FormatEditorDate(t time.Time) string {
	return t.Format(EditorDateLayout)
}

// FormatExportDate returns t as "yyyy-MM-ddTHH:mm:ss".
func (InvariantFormatter) FormatExportDate(t time.Time) string {
	return t.Format(ExportDateLayout)
}

// ParseDate tries each accepted layout in turn. Strings without a zone are
// read as UTC.
func (InvariantFormatter) ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range parseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
