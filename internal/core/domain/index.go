package domain

import (
	"fmt"
	"time"
)

// IndexFormatVersion is bumped whenever the persisted layout changes.
// Indexes with another version are treated as invalid and rebuilt.
const IndexFormatVersion = 1

// IndexManifest describes a persisted semantic index.
type IndexManifest struct {
	FormatVersion  int
	EmbeddingModel string
	Dimensions     int
	EntryCount     int
	CreatedAt      time.Time
}

// IndexEntry is one embedded span.
type IndexEntry struct {
	Block  TextBlock
	Vector []float32
}

// IndexSnapshot is the complete content of a semantic index.
type IndexSnapshot struct {
	Manifest IndexManifest
	Entries  []IndexEntry
}

// NewIndexSnapshot builds a snapshot from parallel slices of spans and vectors.
func NewIndexSnapshot(model string, spans []TextBlock, vectors [][]float32) (*IndexSnapshot, error) {
	if len(spans) != len(vectors) {
		return nil, fmt.Errorf("%w: %d spans but %d vectors", ErrInvalidInput, len(spans), len(vectors))
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w: no spans to index", ErrInvalidInput)
	}

	entries := make([]IndexEntry, len(spans))
	for i := range spans {
		entries[i] = IndexEntry{Block: spans[i], Vector: vectors[i]}
	}

	snap := &IndexSnapshot{
		Manifest: IndexManifest{
			FormatVersion:  IndexFormatVersion,
			EmbeddingModel: model,
			Dimensions:     len(vectors[0]),
			EntryCount:     len(entries),
			CreatedAt:      time.Now().UTC(),
		},
		Entries: entries,
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Validate checks the snapshot is internally consistent.
func (s *IndexSnapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidInput)
	}
	m := s.Manifest
	if m.FormatVersion != IndexFormatVersion {
		return fmt.Errorf("%w: format version %d, want %d", ErrInvalidInput, m.FormatVersion, IndexFormatVersion)
	}
	if m.EmbeddingModel == "" {
		return fmt.Errorf("%w: manifest has no embedding model", ErrInvalidInput)
	}
	if m.Dimensions <= 0 {
		return fmt.Errorf("%w: manifest dimensions %d", ErrInvalidInput, m.Dimensions)
	}
	if m.EntryCount != len(s.Entries) || m.EntryCount == 0 {
		return fmt.Errorf("%w: manifest lists %d entries, found %d", ErrInvalidInput, m.EntryCount, len(s.Entries))
	}
	for i, e := range s.Entries {
		if len(e.Vector) != m.Dimensions {
			return fmt.Errorf("%w: entry %d has %d dimensions, want %d",
				ErrInvalidInput, i, len(e.Vector), m.Dimensions)
		}
	}
	return nil
}
