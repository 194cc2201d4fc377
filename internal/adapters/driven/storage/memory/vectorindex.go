package memory

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// Ensure OpenVectorIndex satisfies the factory signature.
var _ driven.VectorIndexFactory = OpenVectorIndex

// VectorIndex ranks spans by exact cosine similarity.
// It is immutable after construction and safe for concurrent use.
type VectorIndex struct {
	snapshot *domain.IndexSnapshot
	norms    []float64
}

// NewVectorIndex builds an index over a validated snapshot.
func NewVectorIndex(snapshot *domain.IndexSnapshot) (*VectorIndex, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	norms := make([]float64, len(snapshot.Entries))
	for i, e := range snapshot.Entries {
		norms[i] = norm(e.Vector)
	}

	return &VectorIndex{snapshot: snapshot, norms: norms}, nil
}

// OpenVectorIndex is NewVectorIndex returning the port type.
func OpenVectorIndex(snapshot *domain.IndexSnapshot) (driven.VectorIndex, error) {
	return NewVectorIndex(snapshot)
}

// Search returns at most k hits, most similar first.
// Ties keep index order.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if len(query) != v.snapshot.Manifest.Dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrInvalidInput, len(query), v.snapshot.Manifest.Dimensions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queryNorm := norm(query)
	hits := make([]driven.VectorHit, len(v.snapshot.Entries))
	for i, e := range v.snapshot.Entries {
		hits[i] = driven.VectorHit{
			Block:      e.Block,
			Similarity: cosine(query, e.Vector, queryNorm, v.norms[i]),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed spans.
func (v *VectorIndex) Len() int {
	return len(v.snapshot.Entries)
}

// Snapshot returns the indexed content.
func (v *VectorIndex) Snapshot() *domain.IndexSnapshot {
	return v.snapshot
}

// cosine returns the cosine similarity, or 0 when either vector has no length.
func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
