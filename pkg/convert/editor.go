package convert

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// ToEditor converts a stored value to the form the editor displays.
//
// Absent values become "". Text that holds a JSON object or array is
// returned parsed; anything that fails to parse is returned as the raw
// string. Numbers are formatted with the formatter, falling back to their
// default string form. Dates use the editor layout, or "" when the value is
// not a date.
func (c *Converter) ToEditor(stored any, kind types.StorageKind) (any, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	stored = deref(stored)
	if stored == nil {
		return "", nil
	}

	switch {
	case kind.IsText():
		s, ok := c.toText(stored)
		if !ok {
			s = fmt.Sprint(stored)
		}
		if parsed, ok := DetectJSON(s); ok {
			return parsed, nil
		}
		return s, nil
	case kind.IsNumeric():
		if d, ok := toDecimal(stored); ok {
			return c.formatter.FormatDecimal(d), nil
		}
		return fmt.Sprint(stored), nil
	default:
		if t, ok := c.toDate(stored); ok {
			return c.formatter.FormatEditorDate(t), nil
		}
		return "", nil
	}
}

// DetectJSON parses s when it looks like a JSON object or array. It reports
// false, without an error, for anything else including malformed JSON.
func DetectJSON(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil, false
	}
	first, last := s[0], s[len(s)-1]
	if !(first == '{' && last == '}') && !(first == '[' && last == ']') {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}
