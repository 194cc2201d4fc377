package memory

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore keeps the last saved snapshot in memory.
type IndexStore struct {
	mu       sync.RWMutex
	snapshot *domain.IndexSnapshot
	saves    int
}

// NewIndexStore creates an empty index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Exists reports whether a snapshot has been saved.
func (s *IndexStore) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// Load returns the saved snapshot after validating it.
func (s *IndexStore) Load(ctx context.Context) (*domain.IndexSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, fmt.Errorf("index: %w", fs.ErrNotExist)
	}
	if err := s.snapshot.Validate(); err != nil {
		return nil, err
	}
	return s.snapshot, nil
}

// Save replaces the saved snapshot.
func (s *IndexStore) Save(ctx context.Context, snapshot *domain.IndexSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.saves++
	return nil
}

// Put stores a snapshot without validation, for seeding damaged indexes.
func (s *IndexStore) Put(snapshot *domain.IndexSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

// Saves returns how many snapshots were saved.
func (s *IndexStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Path returns the store location.
func (s *IndexStore) Path() string {
	return ":memory:"
}
