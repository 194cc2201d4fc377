package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/logger"
)

// IndexManager loads the persisted semantic index or rebuilds it from the corpus.
type IndexManager struct {
	mu       sync.Mutex
	store    driven.IndexStore
	embedder driven.EmbeddingService
	open     driven.VectorIndexFactory
	splitter driven.SpanSplitter
	source   string
}

// IndexManagerOption configures an IndexManager.
type IndexManagerOption func(*IndexManager)

// WithSplitter splits the corpus into spans before embedding.
// Without one the whole corpus is embedded as a single span.
func WithSplitter(s driven.SpanSplitter) IndexManagerOption {
	return func(m *IndexManager) {
		m.splitter = s
	}
}

// WithCorpusSource sets the Source recorded on single-span entries.
func WithCorpusSource(path string) IndexManagerOption {
	return func(m *IndexManager) {
		m.source = path
	}
}

// NewIndexManager creates a manager persisting through store and embedding
// with embedder. open builds the searchable index from a snapshot.
func NewIndexManager(
	store driven.IndexStore,
	embedder driven.EmbeddingService,
	open driven.VectorIndexFactory,
	opts ...IndexManagerOption,
) *IndexManager {
	m := &IndexManager{
		store:    store,
		embedder: embedder,
		open:     open,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadOrBuild returns the persisted index when it loads cleanly and was built
// with the configured embedding model. The corpus is not compared against the
// persisted content. Any load failure is logged and followed by a rebuild.
func (m *IndexManager) LoadOrBuild(ctx context.Context, corpus string) (driven.VectorIndex, error) {
	index, _, err := m.Ensure(ctx, corpus, false)
	return index, err
}

// Rebuild embeds the corpus and replaces the persisted index unconditionally.
func (m *IndexManager) Rebuild(ctx context.Context, corpus string) (driven.VectorIndex, error) {
	index, _, err := m.Ensure(ctx, corpus, true)
	return index, err
}

// Ensure is LoadOrBuild when force is false and Rebuild when it is true.
// The boolean reports whether a rebuild happened.
func (m *IndexManager) Ensure(ctx context.Context, corpus string, force bool) (driven.VectorIndex, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !force && m.store.Exists() {
		index, err := m.load(ctx)
		if err == nil {
			logger.Debug("Loaded index from %s (%d entries)", m.store.Path(), index.Len())
			return index, false, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		logger.With(logger.Fields{"path": m.store.Path(), "error": err.Error()}).Warn("Rebuilding index")
	}

	index, err := m.rebuild(ctx, corpus)
	if err != nil {
		return nil, false, err
	}
	return index, true, nil
}

// Path returns the index location.
func (m *IndexManager) Path() string {
	return m.store.Path()
}

// load reads the persisted snapshot. Every failure wraps ErrIndexLoad.
func (m *IndexManager) load(ctx context.Context) (driven.VectorIndex, error) {
	snap, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexLoad, err)
	}
	if got, want := snap.Manifest.EmbeddingModel, m.embedder.ModelName(); got != want {
		return nil, fmt.Errorf("%w: index built with %q, configured model is %q", domain.ErrIndexLoad, got, want)
	}
	// Zero means the embedder cannot say, so any stored size is accepted.
	if got, want := snap.Manifest.Dimensions, m.embedder.Dimensions(); want > 0 && got != want {
		return nil, fmt.Errorf("%w: index has %d dimensions, embedder produces %d", domain.ErrIndexLoad, got, want)
	}
	index, err := m.open(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexLoad, err)
	}
	return index, nil
}

func (m *IndexManager) rebuild(ctx context.Context, corpus string) (driven.VectorIndex, error) {
	logger.Section("Building index")

	spans, err := m.spans(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w: corpus is empty", domain.ErrEmptyCorpus)
	}

	texts := make([]string, len(spans))
	for i, s := range spans {
		texts[i] = s.Text
	}

	logger.Debug("Embedding %d spans with %s", len(spans), m.embedder.ModelName())
	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	if len(vectors) != len(spans) {
		return nil, fmt.Errorf("%w: got %d vectors for %d spans", domain.ErrEmbedding, len(vectors), len(spans))
	}

	snap, err := domain.NewIndexSnapshot(m.embedder.ModelName(), spans, vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	if err := m.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save index %s: %w", m.store.Path(), err)
	}

	index, err := m.open(snap)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	logger.Info("Index built with %d entries", index.Len())
	return index, nil
}

// spans divides the corpus for embedding.
func (m *IndexManager) spans(ctx context.Context, corpus string) ([]domain.TextBlock, error) {
	if m.splitter != nil {
		spans, err := m.splitter.Split(ctx, corpus)
		if err != nil {
			return nil, fmt.Errorf("split corpus with %s: %w", m.splitter.Name(), err)
		}
		return spans, nil
	}

	if corpus == "" {
		return nil, nil
	}
	return []domain.TextBlock{{
		ID:     uuid.New().String(),
		Source: m.source,
		Text:   corpus,
	}}, nil
}
