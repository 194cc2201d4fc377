// Package chunker provides a fixed-size corpus splitter.
// It is opt-in: without it the corpus is embedded as one span.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.SpanSplitter = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits the corpus into fixed-size, overlapping spans.
// Sizes count runes, so multi-byte characters are never cut.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Split returns the corpus as ordered spans. Page holds the span position.
func (p *Processor) Split(ctx context.Context, corpus string) ([]domain.TextBlock, error) {
	if corpus == "" {
		return nil, nil
	}

	runes := []rune(corpus)
	total := len(runes)
	step := p.chunkSize - p.overlap

	spans := make([]domain.TextBlock, 0, total/step+1)
	for start, position := 0, 0; start < total; start, position = start+step, position+1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + p.chunkSize
		if end > total {
			end = total
		}

		spans = append(spans, domain.TextBlock{
			ID:   uuid.New().String(),
			Page: position,
			Text: string(runes[start:end]),
		})

		if end == total {
			break
		}
	}

	return spans, nil
}
