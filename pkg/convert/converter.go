package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// Converter converts property values according to their storage kind.
// Its fields are read-only after New returns.
type Converter struct {
	logger    *zap.Logger
	formatter Formatter
	languages types.LanguageLookup
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used to report conversion failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFormatter replaces the invariant formatter.
func WithFormatter(f Formatter) Option {
	return func(c *Converter) {
		if f != nil {
			c.formatter = f
		}
	}
}

// WithLanguages sets the lookup used to resolve language ids during
// property XML export.
func WithLanguages(l types.LanguageLookup) Option {
	return func(c *Converter) {
		c.languages = l
	}
}

// New returns a Converter with a no-op logger and the invariant formatter
// unless options say otherwise.
func New(opts ...Option) *Converter {
	c := &Converter{
		logger:    zap.NewNop(),
		formatter: InvariantFormatter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkKind returns ErrUnsupportedStorageKind for kinds without a conversion.
func checkKind(kind types.StorageKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", types.ErrUnsupportedStorageKind, string(kind))
	}
	return nil
}
