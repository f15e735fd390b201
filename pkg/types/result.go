package types

// ConversionResult is the outcome of coercing a value to a storage kind.
// When OK is false Value is always nil. A successful result may also carry
// nil: absent input converts to absent output.
type ConversionResult struct {
	Value any
	OK    bool
}

// Success returns a successful result carrying v.
func Success(v any) ConversionResult {
	return ConversionResult{Value: v, OK: true}
}

// Failure returns a failed result.
func Failure() ConversionResult {
	return ConversionResult{}
}
