package convert

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/shopspring/decimal"
)

// deref unwraps pointers so *string, *time.Time and friends coerce like
// their targets. A nil pointer becomes nil.
func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// isBlank reports whether v is nil or a whitespace-only string.
func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	}
	return false
}

// toText renders v as a string. Scalars use invariant formatting; maps,
// slices and structs are JSON encoded.
func (c *Converter) toText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case json.Number:
		return s.String(), true
	case decimal.Decimal:
		return c.formatter.FormatDecimal(s), true
	case time.Time:
		return c.formatter.FormatExportDate(s), true
	case bool:
		return strconv.FormatBool(s), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(s).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(s).Uint(), 10), true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// toInt64 coerces v to a 64-bit integer. Fractional numbers and strings that
// are not base-10 integers fail.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		i, err := safecast.ToInt64(n)
		return i, err == nil
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		i, err := safecast.ToInt64(n)
		return i, err == nil
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	case decimal.Decimal:
		if !n.IsInteger() || !n.BigInt().IsInt64() {
			return 0, false
		}
		return n.IntPart(), true
	}
	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	i, err := safecast.ToInt64(f)
	return i, err == nil
}

// toDecimal coerces v to a decimal. Strings are parsed invariantly, so a
// comma separator fails.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case uint, uint64:
		u := reflect.ValueOf(n).Uint()
		return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0), true
	}
	if i, ok := toInt64(v); ok {
		return decimal.NewFromInt(i), true
	}
	return decimal.Decimal{}, false
}

// toDate coerces v to a time.Time using the formatter for strings.
func (c *Converter) toDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return c.formatter.ParseDate(t)
	}
	return time.Time{}, false
}
