package memory

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore keeps the corpus snapshot in memory.
type CorpusStore struct {
	mu      sync.RWMutex
	corpus  string
	written bool
	writes  int
}

// NewCorpusStore creates an empty corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// Write replaces the snapshot.
func (s *CorpusStore) Write(ctx context.Context, corpus string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = corpus
	s.written = true
	s.writes++
	return nil
}

// Read returns the snapshot, or fs.ErrNotExist if nothing was written.
func (s *CorpusStore) Read(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.written {
		return "", fmt.Errorf("corpus snapshot: %w", fs.ErrNotExist)
	}
	return s.corpus, nil
}

// Writes returns how many times the snapshot was replaced.
func (s *CorpusStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Path returns the snapshot location.
func (s *CorpusStore) Path() string {
	return ":memory:"
}
