package mcp

import (
	"context"

	"github.com/custodia-labs/ragbot/internal/core/ports/driving"
)

// CorpusReader reads the current corpus snapshot.
type CorpusReader interface {
	Read(ctx context.Context) (string, error)
}

// Ports aggregates what the MCP server needs.
type Ports struct {
	// Answer answers questions. Required.
	Answer driving.AnswerService

	// Corpus backs the corpus resource. Optional.
	Corpus CorpusReader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
