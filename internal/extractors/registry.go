// Package extractors wires the per-format extractors into a registry
// keyed by domain.Format.
package extractors

import (
	"context"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/extractors/pdf"
	"github.com/custodia-labs/ragbot/internal/extractors/plaintext"
	"github.com/custodia-labs/ragbot/internal/extractors/word"
)

// Ensure Registry and Unsupported implement their interfaces.
var (
	_ driven.ExtractorRegistry = (*Registry)(nil)
	_ driven.Extractor         = Unsupported{}
)

// Registry maps formats to extractors.
type Registry struct {
	byFormat map[domain.Format]driven.Extractor
}

// NewRegistry creates a registry holding the given extractors.
// A later extractor for the same format replaces an earlier one.
func NewRegistry(list ...driven.Extractor) *Registry {
	r := &Registry{byFormat: make(map[domain.Format]driven.Extractor, len(list))}
	for _, e := range list {
		r.Register(e)
	}
	return r
}

// Default returns a registry with the plain text, PDF and Word extractors.
func Default(wordOpts ...word.Option) *Registry {
	return NewRegistry(plaintext.New(), pdf.New(), word.New(wordOpts...))
}

// Register adds or replaces the extractor for its format.
// Extractors claiming FormatUnsupported are ignored.
func (r *Registry) Register(e driven.Extractor) {
	if e == nil || !e.Format().IsSupported() {
		return
	}
	r.byFormat[e.Format()] = e
}

// For returns the extractor for format, or Unsupported.
func (r *Registry) For(format domain.Format) driven.Extractor {
	if e, ok := r.byFormat[format]; ok {
		return e
	}
	return Unsupported{}
}

// Unsupported is the no-op extractor for unrecognised formats.
type Unsupported struct{}

// Format returns FormatUnsupported.
func (Unsupported) Format() domain.Format {
	return domain.FormatUnsupported
}

// Extract returns no blocks.
func (Unsupported) Extract(context.Context, string) ([]domain.TextBlock, error) {
	return nil, nil
}
