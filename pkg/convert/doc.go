// Package convert maps property values between the editor-facing form, the
// typed storage form selected by a types.StorageKind, and the text and XML
// export forms.
//
// A Converter is stateless per call and safe for concurrent use. Data problems
// never surface as errors: failed coercions come back as a failed
// types.ConversionResult, malformed JSON falls back to the raw string, and
// unconvertible dates export as empty text. The only error any operation
// returns is types.ErrUnsupportedStorageKind, which means the field is
// configured with a kind the converter does not know.
//
// Example:
//
//	conv := convert.New(convert.WithLogger(logger))
//	res, err := conv.ToStored("42", types.KindInteger)
//	// res.Value == int32(42), res.OK == true
package convert
