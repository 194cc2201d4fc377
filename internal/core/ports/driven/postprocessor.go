package driven

import (
	"context"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// SpanSplitter divides the corpus into spans before embedding.
// The index manager embeds the whole corpus as one span when no splitter is set.
type SpanSplitter interface {
	// Name returns the splitter name for logging.
	Name() string

	// Split returns the corpus as ordered spans. Empty corpus yields no spans.
	Split(ctx context.Context, corpus string) ([]domain.TextBlock, error)
}
