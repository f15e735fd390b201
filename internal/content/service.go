// Package content is the editing layer that sits between the CLI and the
// storage backend. It resolves a field's data type, runs editor input
// through the converter, and persists or exports the stored result.
package content

import (
	"errors"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/propedit/internal/sqlite"
	"github.com/mesh-intelligence/propedit/pkg/convert"
	"github.com/mesh-intelligence/propedit/pkg/types"
)

// Service saves, loads, publishes and exports property values.
type Service struct {
	store  types.Cupboard
	conv   *convert.Converter
	logger *zap.Logger
}

// NewService returns a Service over an attached store. The converter should
// be configured with the store's language lookup for XML export.
func NewService(store types.Cupboard, conv *convert.Converter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, conv: conv, logger: logger}
}

// DataType returns the registered data type for alias.
// Returns ErrNotFound if no data type has that alias.
func (s *Service) DataType(alias string) (*types.DataType, error) {
	tbl, err := s.store.GetTable(types.DataTypesTable)
	if err != nil {
		return nil, err
	}
	found, err := tbl.Fetch(types.Filter{"alias": alias})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("data type %q: %w", alias, types.ErrNotFound)
	}
	return found[0].(*types.DataType), nil
}

// SaveValue converts an editor value with the data type's storage kind and
// stores it as the edited side of the (alias, language, segment) variant.
// A value that fails to convert is logged and stored as nil; an unsupported
// storage kind is returned as an error. It returns the stored value and the
// storage kind it was converted with.
func (s *Service) SaveValue(alias, languageID, segment string, editorValue any) (any, types.StorageKind, error) {
	dt, err := s.DataType(alias)
	if err != nil {
		return nil, "", err
	}

	stored, err := s.conv.ToStoredOrNil(dt.Alias, editorValue, dt.StorageKind)
	if err != nil {
		s.logger.Error("data type has no conversion for its storage kind",
			zap.String("alias", dt.Alias),
			zap.String("kind", string(dt.StorageKind)),
		)
		return nil, "", err
	}

	pv, err := s.variant(dt.Alias, languageID, segment)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, "", err
	}
	if pv == nil {
		pv = &types.PropertyValue{PropertyAlias: dt.Alias, LanguageID: languageID, Segment: segment}
	}
	pv.Edited = stored

	tbl, err := s.store.GetTable(types.PropertyValuesTable)
	if err != nil {
		return nil, "", err
	}
	if _, err := tbl.Set(pv.ValueID, pv); err != nil {
		return nil, "", fmt.Errorf("saving %s: %w", dt.Alias, err)
	}
	s.logger.Debug("saved property value",
		zap.String("alias", dt.Alias),
		zap.String("language_id", languageID),
		zap.String("segment", segment),
	)
	return stored, dt.StorageKind, nil
}

// Publish copies the edited side of a variant to its published side.
func (s *Service) Publish(alias, languageID, segment string) error {
	pv, err := s.variant(sqlite.NormalizeAlias(alias), languageID, segment)
	if err != nil {
		return err
	}
	pv.Published = pv.Edited

	tbl, err := s.store.GetTable(types.PropertyValuesTable)
	if err != nil {
		return err
	}
	if _, err := tbl.Set(pv.ValueID, pv); err != nil {
		return fmt.Errorf("publishing %s: %w", alias, err)
	}
	return nil
}

// EditorValue returns the edited side of a variant in editor form. A
// variant that was never saved reads as "".
func (s *Service) EditorValue(alias, languageID, segment string) (any, error) {
	dt, err := s.DataType(alias)
	if err != nil {
		return nil, err
	}
	pv, err := s.variant(dt.Alias, languageID, segment)
	if errors.Is(err, types.ErrNotFound) {
		return s.conv.ToEditor(nil, dt.StorageKind)
	}
	if err != nil {
		return nil, err
	}
	return s.conv.ToEditor(pv.Edited, dt.StorageKind)
}

// Property collects every stored variant of alias.
func (s *Service) Property(alias string) (types.Property, error) {
	dt, err := s.DataType(alias)
	if err != nil {
		return types.Property{}, err
	}
	tbl, err := s.store.GetTable(types.PropertyValuesTable)
	if err != nil {
		return types.Property{}, err
	}
	rows, err := tbl.Fetch(types.Filter{"property_alias": dt.Alias})
	if err != nil {
		return types.Property{}, err
	}
	return types.Property{
		Alias:       dt.Alias,
		StorageKind: dt.StorageKind,
		Values: lo.Map(rows, func(r any, _ int) types.PropertyValue {
			return *r.(*types.PropertyValue)
		}),
	}, nil
}

// ExportXML renders the published or edited variants of alias as XML.
func (s *Service) ExportXML(alias string, published bool) (string, error) {
	node, err := s.exportNode(alias, published)
	if err != nil {
		return "", err
	}
	return convert.RenderXML(node), nil
}

// ExportAllXML renders every registered property under a single root
// element.
func (s *Service) ExportAllXML(root string, published bool) (string, error) {
	if !types.IsXMLName(root) {
		return "", fmt.Errorf("root element %q: %w", root, types.ErrInvalidName)
	}
	tbl, err := s.store.GetTable(types.DataTypesTable)
	if err != nil {
		return "", err
	}
	all, err := tbl.Fetch(nil)
	if err != nil {
		return "", err
	}

	doc := &xmlquery.Node{Type: xmlquery.ElementNode, Data: root}
	for _, e := range all {
		node, err := s.exportNode(e.(*types.DataType).Alias, published)
		if err != nil {
			return "", err
		}
		xmlquery.AddChild(doc, node)
	}
	return convert.RenderXML(doc), nil
}

func (s *Service) exportNode(alias string, published bool) (*xmlquery.Node, error) {
	prop, err := s.Property(alias)
	if err != nil {
		return nil, err
	}
	return s.conv.ExportProperty(prop, published)
}

// variant fetches the stored row of one (alias, language, segment) variant.
func (s *Service) variant(alias, languageID, segment string) (*types.PropertyValue, error) {
	tbl, err := s.store.GetTable(types.PropertyValuesTable)
	if err != nil {
		return nil, err
	}
	rows, err := tbl.Fetch(types.Filter{
		"property_alias": alias,
		"language_id":    languageID,
		"segment":        segment,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("value %s/%s/%s: %w", alias, languageID, segment, types.ErrNotFound)
	}
	return rows[0].(*types.PropertyValue), nil
}
