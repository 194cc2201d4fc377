package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/logger"
)

// CorpusCache writes the combined corpus snapshot.
type CorpusCache struct {
	store driven.CorpusStore
}

// NewCorpusCache creates a cache backed by store.
func NewCorpusCache(store driven.CorpusStore) *CorpusCache {
	return &CorpusCache{store: store}
}

// Build joins blocks with a blank line, replaces the snapshot with the
// result and returns it. On error the previous snapshot is kept.
func (c *CorpusCache) Build(ctx context.Context, blocks []domain.TextBlock) (string, error) {
	corpus := domain.JoinBlocks(blocks)

	if err := c.store.Write(ctx, corpus); err != nil {
		return "", fmt.Errorf("write corpus snapshot: %w", err)
	}

	logger.Debug("Wrote corpus snapshot %s (%d blocks, %d bytes)", c.store.Path(), len(blocks), len(corpus))
	return corpus, nil
}

// Path returns the snapshot location.
func (c *CorpusCache) Path() string {
	return c.store.Path()
}
