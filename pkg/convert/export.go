package convert

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// ToExportText renders a stored value as export text. Numbers are invariant,
// dates use the export layout, and a value that is not a date exports as "".
func (c *Converter) ToExportText(stored any, kind types.StorageKind) (string, error) {
	if err := checkKind(kind); err != nil {
		return "", err
	}
	stored = deref(stored)
	if stored == nil {
		return "", nil
	}

	switch {
	case kind.IsText():
		if s, ok := c.toText(stored); ok {
			return s, nil
		}
		return fmt.Sprint(stored), nil
	case kind.IsNumeric():
		if d, ok := toDecimal(stored); ok {
			return c.formatter.FormatDecimal(d), nil
		}
		return fmt.Sprint(stored), nil
	default:
		if t, ok := c.toDate(stored); ok {
			return c.formatter.FormatExportDate(t), nil
		}
		return "", nil
	}
}

// ToExportNode renders a stored value as an XML node. Text kinds produce a
// CDATA node; numbers, dates and empty values produce a plain text node.
func (c *Converter) ToExportNode(stored any, kind types.StorageKind) (*xmlquery.Node, error) {
	text, err := c.ToExportText(stored, kind)
	if err != nil {
		return nil, err
	}
	if text == "" || !kind.IsText() {
		return &xmlquery.Node{Type: xmlquery.TextNode, Data: text}, nil
	}
	return &xmlquery.Node{Type: xmlquery.CharDataNode, Data: text}, nil
}

// ExportProperty renders every non-empty variant of p as a <value> child of
// an element named after the property alias. Language ids are resolved to
// a lang attribute through the configured lookup; a variant whose language
// cannot be resolved is skipped.
func (c *Converter) ExportProperty(p types.Property, published bool) (*xmlquery.Node, error) {
	if !types.IsXMLName(p.Alias) {
		return nil, fmt.Errorf("property alias %q: %w", p.Alias, types.ErrInvalidName)
	}
	if err := checkKind(p.StorageKind); err != nil {
		return nil, err
	}

	root := &xmlquery.Node{Type: xmlquery.ElementNode, Data: p.Alias}
	for _, pv := range p.Values {
		v := deref(pv.Value(published))
		if isBlank(v) {
			continue
		}

		value := &xmlquery.Node{Type: xmlquery.ElementNode, Data: "value"}
		if pv.LanguageID != "" {
			iso, ok := c.isoCode(pv.LanguageID)
			if !ok {
				c.logger.Warn("skipping property value with unknown language",
					zap.String("property", p.Alias),
					zap.String("language_id", pv.LanguageID),
				)
				continue
			}
			xmlquery.AddAttr(value, "lang", iso)
		}
		if pv.Segment != "" {
			xmlquery.AddAttr(value, "segment", pv.Segment)
		}

		child, err := c.ToExportNode(v, p.StorageKind)
		if err != nil {
			return nil, err
		}
		xmlquery.AddChild(value, child)
		xmlquery.AddChild(root, value)
	}
	return root, nil
}

func (c *Converter) isoCode(languageID string) (string, bool) {
	if c.languages == nil {
		return "", false
	}
	lang, err := c.languages.GetLanguageByID(languageID)
	if err != nil || lang == nil {
		return "", false
	}
	return lang.IsoCode, true
}

// RenderXML serializes a node built by ExportProperty or ToExportNode.
// Text is escaped; CDATA sections are split around any "]]>" they contain.
// Characters XML does not allow are written as U+FFFD in both.
func RenderXML(n *xmlquery.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeNode(b, child)
		}
	case xmlquery.ElementNode:
		b.WriteString("<")
		b.WriteString(n.Data)
		for _, attr := range n.Attr {
			b.WriteString(" ")
			b.WriteString(attr.Name.Local)
			b.WriteString(`="`)
			escape(b, attr.Value)
			b.WriteString(`"`)
		}
		if n.FirstChild == nil {
			b.WriteString(" />")
			return
		}
		b.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeNode(b, child)
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteString(">")
	case xmlquery.TextNode:
		escape(b, n.Data)
	case xmlquery.CharDataNode:
		b.WriteString("<![CDATA[")
		b.WriteString(strings.ReplaceAll(xmlChars(n.Data), "]]>", "]]]]><![CDATA[>"))
		b.WriteString("]]>")
	}
}

func escape(b *strings.Builder, s string) {
	// EscapeText only fails when the writer fails; strings.Builder never does.
	_ = xml.EscapeText(b, []byte(s))
}

// xmlChars replaces runes outside the XML Char production with U+FFFD, the
// same substitution xml.EscapeText makes for text nodes.
func xmlChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return '\uFFFD'
		}
		return r
	}, s)
}
