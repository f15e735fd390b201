package convert

import (
	"strings"
	"testing"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

func TestToExportText(t *testing.T) {
	tests := []struct {
		name string
		kind types.StorageKind
		in   any
		want string
	}{
		{"nil", types.KindText, nil, ""},
		{"text", types.KindText, "a < b", "a < b"},
		{"integer", types.KindInteger, int32(7), "7"},
		{"decimal", types.KindDecimal, decimal.RequireFromString("1234.5"), "1234.5"},
		{"date", types.KindDate, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05"},
		{"bad date", types.KindDate, "someday", ""},
	}
	conv := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ToExportText(tt.in, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToExportNode(t *testing.T) {
	tests := []struct {
		name     string
		kind     types.StorageKind
		in       any
		wantType xmlquery.NodeType
		wantXML  string
	}{
		{"text with markup is cdata", types.KindText, "a < b", xmlquery.CharDataNode, "<![CDATA[a < b]]>"},
		{"long text is cdata", types.KindLongText, "<p>hi</p>", xmlquery.CharDataNode, "<![CDATA[<p>hi</p>]]>"},
		{"integer is plain", types.KindInteger, int32(7), xmlquery.TextNode, "7"},
		{"decimal is plain", types.KindDecimal, decimal.RequireFromString("0.5"), xmlquery.TextNode, "0.5"},
		{"date is plain", types.KindDate, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), xmlquery.TextNode, "2024-01-02T03:04:05"},
		{"bad date is empty", types.KindDate, "never", xmlquery.TextNode, ""},
		{"empty text is plain", types.KindText, nil, xmlquery.TextNode, ""},
		{"cdata terminator is split", types.KindText, "x]]>y", xmlquery.CharDataNode, "<![CDATA[x]]]]><![CDATA[>y]]>"},
	}
	conv := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := conv.ToExportNode(tt.in, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, n.Type)
			assert.Equal(t, tt.wantXML, RenderXML(n))
		})
	}
}

func TestToExportNodeUnsupportedKind(t *testing.T) {
	_, err := New().ToExportNode("x", types.StorageKind("?"))
	assert.ErrorIs(t, err, types.ErrUnsupportedStorageKind)
}

// languageMap is an in-memory LanguageLookup.
type languageMap map[string]string

func (m languageMap) GetLanguageByID(id string) (*types.Language, error) {
	iso, ok := m[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &types.Language{LanguageID: id, IsoCode: iso}, nil
}

func TestExportProperty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	conv := New(
		WithLogger(zap.New(core)),
		WithLanguages(languageMap{"l-en": "en-US", "l-da": "da-DK"}),
	)

	prop := types.Property{
		Alias:       "bodyText",
		StorageKind: types.KindLongText,
		Values: []types.PropertyValue{
			{Edited: "<b>neutral</b>", Published: "old"},
			{LanguageID: "l-en", Edited: "hello & bye"},
			{LanguageID: "l-da", Segment: "mobile", Edited: "hej"},
			{LanguageID: "l-xx", Edited: "lost"},
			{LanguageID: "l-en", Segment: "empty", Edited: "   "},
		},
	}

	node, err := conv.ExportProperty(prop, false)
	require.NoError(t, err)
	out := RenderXML(node)
	assert.Contains(t, out, "<![CDATA[<b>neutral</b>]]>")
	assert.NotContains(t, out, "lost")

	doc, err := xmlquery.Parse(strings.NewReader(out))
	require.NoError(t, err)
	values := xmlquery.Find(doc, "/bodyText/value")
	require.Len(t, values, 3)

	en := xmlquery.FindOne(doc, "/bodyText/value[@lang='en-US']")
	require.NotNil(t, en)
	assert.Equal(t, "hello & bye", en.InnerText())

	da := xmlquery.FindOne(doc, "/bodyText/value[@lang='da-DK']")
	require.NotNil(t, da)
	assert.Equal(t, "mobile", da.SelectAttr("segment"))
	assert.Equal(t, "hej", da.InnerText())

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "l-xx", logs.All()[0].ContextMap()["language_id"])
}

func TestExportPropertyPublished(t *testing.T) {
	conv := New()
	prop := types.Property{
		Alias:       "price",
		StorageKind: types.KindDecimal,
		Values: []types.PropertyValue{
			{Edited: decimal.RequireFromString("2.5"), Published: decimal.RequireFromString("1.25")},
		},
	}
	node, err := conv.ExportProperty(prop, true)
	require.NoError(t, err)
	assert.Equal(t, "<price><value>1.25</value></price>", RenderXML(node))
}

func TestExportPropertyWithoutLookupSkipsCultureValues(t *testing.T) {
	conv := New()
	prop := types.Property{
		Alias:       "count",
		StorageKind: types.KindInteger,
		Values: []types.PropertyValue{
			{LanguageID: "l-en", Edited: int32(1)},
		},
	}
	node, err := conv.ExportProperty(prop, false)
	require.NoError(t, err)
	assert.Equal(t, "<count />", RenderXML(node))
}

func TestExportPropertyErrors(t *testing.T) {
	conv := New()
	_, err := conv.ExportProperty(types.Property{StorageKind: types.KindText}, false)
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = conv.ExportProperty(types.Property{Alias: "x", StorageKind: "blob"}, false)
	assert.ErrorIs(t, err, types.ErrUnsupportedStorageKind)

	for _, alias := range []string{"1stField", "first field", "-x", "a:b"} {
		_, err = conv.ExportProperty(types.Property{Alias: alias, StorageKind: types.KindText}, false)
		assert.ErrorIs(t, err, types.ErrInvalidName, alias)
	}
}

func TestRenderXMLReplacesIllegalCharacters(t *testing.T) {
	conv := New()
	prop := types.Property{
		Alias:       "title",
		StorageKind: types.KindText,
		Values: []types.PropertyValue{
			{Edited: "bell\x01 and nul\x00 ]]> end"},
			{Segment: "s\x02", Edited: "tab\tok"},
		},
	}
	node, err := conv.ExportProperty(prop, false)
	require.NoError(t, err)
	out := RenderXML(node)
	assert.NotContains(t, out, "\x01")
	assert.NotContains(t, out, "\x00")

	doc, err := xmlquery.Parse(strings.NewReader(out))
	require.NoError(t, err)
	values := xmlquery.Find(doc, "/title/value")
	require.Len(t, values, 2)
	assert.Equal(t, "bell\uFFFD and nul\uFFFD ]]> end", values[0].InnerText())
	assert.Equal(t, "s\uFFFD", values[1].SelectAttr("segment"))
	assert.Equal(t, "tab\tok", values[1].InnerText())
}

func TestRenderXMLEscapesAttributes(t *testing.T) {
	n := &xmlquery.Node{Type: xmlquery.ElementNode, Data: "value"}
	xmlquery.AddAttr(n, "segment", `a"b<c`)
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: "1 < 2"})
	assert.Equal(t, `<value segment="a&#34;b&lt;c">1 &lt; 2</value>`, RenderXML(n))
}
