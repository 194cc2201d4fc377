package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/core/ports/driving"
	"github.com/custodia-labs/ragbot/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.IndexService = (*Pipeline)(nil)

// Mode selects how Start hands over the session.
type Mode int

const (
	// ModeEmbeddable returns the session to a host without reading input.
	ModeEmbeddable Mode = iota

	// ModeInteractive runs the console loop before returning.
	ModeInteractive
)

// String returns the string representation.
func (m Mode) String() string {
	switch m {
	case ModeEmbeddable:
		return "embeddable"
	case ModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// PipelineDeps are the components a Pipeline runs in order.
type PipelineDeps struct {
	Instructions *InstructionLoader
	Ingestor     *Ingestor
	Corpus       *CorpusCache
	Indexes      *IndexManager
	Embedder     driven.EmbeddingService
	LLM          driven.LLMService

	// DocumentsDir is scanned on every refresh.
	DocumentsDir string

	Chain ChainOptions

	// In and Out are used by ModeInteractive. They default to stdin and stdout.
	In  io.Reader
	Out io.Writer
}

// Pipeline runs ingestion, indexing and chain construction.
type Pipeline struct {
	mu   sync.Mutex
	deps PipelineDeps
}

// NewPipeline creates a pipeline over deps.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	return &Pipeline{deps: deps}
}

// Start loads the directive, refreshes the corpus and index, and builds a
// session. In ModeInteractive the console loop runs before Start returns.
func (p *Pipeline) Start(ctx context.Context, mode Mode) (*Session, error) {
	logger.Debug("Starting pipeline in %s mode", mode)

	directive, err := p.deps.Instructions.Load(ctx)
	if err != nil {
		return nil, err
	}

	index, _, err := p.refresh(ctx, false)
	if err != nil {
		return nil, err
	}

	chain := BuildChain(index, directive, p.deps.Embedder, p.deps.LLM, p.deps.Chain)
	session := NewSession(chain)

	if mode == ModeInteractive {
		if err := session.RunInteractive(ctx, p.deps.In, p.deps.Out); err != nil {
			return session, err
		}
	}
	return session, nil
}

// Refresh ingests the documents directory, rewrites the corpus snapshot and
// loads or rebuilds the index.
func (p *Pipeline) Refresh(ctx context.Context, rebuild bool) (*driving.IndexSummary, error) {
	_, summary, err := p.refresh(ctx, rebuild)
	return summary, err
}

// refresh serialises the corpus write and the index rebuild.
func (p *Pipeline) refresh(ctx context.Context, rebuild bool) (driven.VectorIndex, *driving.IndexSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger.Section("Loading documents")
	report, err := p.deps.Ingestor.Ingest(ctx, p.deps.DocumentsDir)
	if err != nil {
		return nil, nil, err
	}

	corpus, err := p.deps.Corpus.Build(ctx, report.Blocks)
	if err != nil {
		return nil, nil, err
	}

	index, rebuilt, err := p.deps.Indexes.Ensure(ctx, corpus, rebuild)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare index: %w", err)
	}

	return index, &driving.IndexSummary{
		Report:     report,
		CorpusSize: len(corpus),
		Entries:    index.Len(),
		Rebuilt:    rebuilt,
		IndexPath:  p.deps.Indexes.Path(),
		CorpusPath: p.deps.Corpus.Path(),
	}, nil
}
