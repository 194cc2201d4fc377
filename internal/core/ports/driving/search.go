package driving

import (
	"context"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// Host contract keys for Invoke.
const (
	InputQuery   = "query"
	OutputResult = "result"
)

// AnswerService answers questions against the built index.
type AnswerService interface {
	// Answer returns the generated answer and the blocks it was conditioned on.
	Answer(ctx context.Context, question string) (domain.Answer, error)

	// Invoke is the map-shaped host contract: {"query": q} -> {"result": text}.
	Invoke(ctx context.Context, input map[string]string) (map[string]string, error)
}

// SessionService is the conversational surface handed to host UIs.
type SessionService interface {
	AnswerService

	// Ask answers question and records the exchange in the history.
	Ask(ctx context.Context, question string) domain.QueryOutcome

	// History returns a copy of the conversation so far.
	History() []domain.Turn
}

// IndexService maintains the corpus snapshot and semantic index.
type IndexService interface {
	// Refresh ingests the documents directory, rewrites the corpus snapshot and
	// loads or rebuilds the index. When rebuild is true the persisted index is
	// replaced even if it loads.
	Refresh(ctx context.Context, rebuild bool) (*IndexSummary, error)
}

// IndexSummary reports what an index refresh did.
type IndexSummary struct {
	Report     *domain.IngestReport
	CorpusSize int
	Entries    int
	Rebuilt    bool
	IndexPath  string
	CorpusPath string
}
