package driven

import (
	"context"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// Extractor turns one source file into text blocks.
// There is one extractor per domain.Format.
type Extractor interface {
	// Format returns the document format this extractor handles.
	Format() domain.Format

	// Extract reads the file at path and returns its text blocks in order.
	// Returning zero blocks with a nil error is valid (e.g. a scanned PDF).
	Extract(ctx context.Context, path string) ([]domain.TextBlock, error)
}

// ExtractorRegistry resolves the extractor for a format.
type ExtractorRegistry interface {
	// For returns the extractor for format. Unsupported formats resolve
	// to a no-op extractor, never nil.
	For(format domain.Format) Extractor
}

// CommandRunner executes an external program and returns its stdout.
// Extractors that shell out (e.g. for legacy .doc files) take one so tests
// can substitute it.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
