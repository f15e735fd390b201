// This file holds query helpers shared by the table accessors.
package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// buildWhere turns the string-valued filter keys listed in columns into a
// WHERE clause. Returns ErrInvalidFilter when a listed key holds a
// non-string value.
func buildWhere(filter types.Filter, columns ...string) (string, []any, error) {
	var conditions []string
	var args []any
	for _, col := range columns {
		v, ok := filter[col]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, col+" = ?")
		args = append(args, s)
	}
	if len(conditions) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// buildPage returns LIMIT/OFFSET clauses for the limit and offset keys.
func buildPage(filter types.Filter) (string, error) {
	var page string
	limit, hasLimit, err := intKey(filter, "limit")
	if err != nil {
		return "", err
	}
	offset, hasOffset, err := intKey(filter, "offset")
	if err != nil {
		return "", err
	}
	if hasLimit && limit > 0 {
		page += fmt.Sprintf(" LIMIT %d", limit)
	}
	if hasOffset && offset > 0 {
		if page == "" {
			// SQLite requires a LIMIT before OFFSET.
			page = " LIMIT -1"
		}
		page += fmt.Sprintf(" OFFSET %d", offset)
	}
	return page, nil
}

func intKey(filter types.Filter, key string) (int, bool, error) {
	v, ok := filter[key]
	if !ok {
		return 0, false, nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, false, types.ErrInvalidFilter
	}
	return n, true, nil
}

// withValue returns a copy of filter with key set to v.
func withValue(filter types.Filter, key string, v any) types.Filter {
	out := make(types.Filter, len(filter)+1)
	for k, val := range filter {
		out[k] = val
	}
	out[key] = v
	return out
}
