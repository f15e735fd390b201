package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStorageKind(t *testing.T) {
	tests := []struct {
		in      string
		want    StorageKind
		wantErr bool
	}{
		{"text", KindText, false},
		{"  LongText ", KindLongText, false},
		{"INTEGER", KindInteger, false},
		{"decimal", KindDecimal, false},
		{"date", KindDate, false},
		{"", "", true},
		{"datetime", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStorageKind(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStorageKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorageKindClasses(t *testing.T) {
	for _, k := range StorageKinds {
		assert.True(t, k.IsValid(), k)
		assert.False(t, k.IsText() && k.IsNumeric(), k)
	}
	assert.True(t, KindLongText.IsText())
	assert.True(t, KindDecimal.IsNumeric())
	assert.False(t, KindDate.IsText() || KindDate.IsNumeric())
	assert.False(t, StorageKind("blob").IsValid())
}

func TestConversionResult(t *testing.T) {
	assert.Equal(t, ConversionResult{Value: int32(3), OK: true}, Success(int32(3)))
	assert.True(t, Success(nil).OK)
	f := Failure()
	assert.False(t, f.OK)
	assert.Nil(t, f.Value)
}

func TestDataTypeValidate(t *testing.T) {
	assert.NoError(t, (&DataType{Alias: "title", StorageKind: KindText}).Validate())
	assert.ErrorIs(t, (&DataType{StorageKind: KindText}).Validate(), ErrInvalidName)
	assert.ErrorIs(t, (&DataType{Alias: "title"}).Validate(), ErrInvalidStorageKind)
	assert.ErrorIs(t, (&DataType{Alias: "1stField", StorageKind: KindText}).Validate(), ErrInvalidName)
}

func TestIsXMLName(t *testing.T) {
	tests := map[string]bool{
		"title":      true,
		"_hidden":    true,
		"page-2.v1":  true,
		"größe":      true,
		"":           false,
		"1stField":   false,
		"-title":     false,
		".title":     false,
		"page title": false,
		"ns:title":   false,
		"a<b":        false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsXMLName(in), in)
	}
}

func TestPropertyValueSide(t *testing.T) {
	pv := PropertyValue{Edited: "draft", Published: "live"}
	assert.Equal(t, "draft", pv.Value(false))
	assert.Equal(t, "live", pv.Value(true))
}
