package driven

import (
	"context"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// VectorIndex provides semantic similarity search over a loaded index.
// Implementations are read-only after construction and safe for concurrent use.
type VectorIndex interface {
	// Search finds the k nearest neighbours to the query vector,
	// most similar first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed spans.
	Len() int

	// Snapshot returns the indexed content.
	Snapshot() *domain.IndexSnapshot
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Block is the matched span.
	Block domain.TextBlock

	// Similarity is the cosine similarity score (-1 to 1).
	Similarity float64
}

// VectorIndexFactory builds a searchable index from a snapshot.
type VectorIndexFactory func(snapshot *domain.IndexSnapshot) (VectorIndex, error)

// IndexStore persists semantic index snapshots.
// A saved snapshot replaces the previous one wholesale; readers never
// observe a partially written index.
type IndexStore interface {
	// Exists reports whether a persisted index is present at the store path.
	Exists() bool

	// Load reads and validates the persisted snapshot.
	Load(ctx context.Context) (*domain.IndexSnapshot, error)

	// Save persists the snapshot, replacing any existing index.
	Save(ctx context.Context, snapshot *domain.IndexSnapshot) error

	// Path returns the index directory.
	Path() string
}
