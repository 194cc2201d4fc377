package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// corpusURI identifies the corpus snapshot resource.
const corpusURI = "ragbot://corpus"

// registerResources exposes the corpus when a reader is configured.
func (s *Server) registerResources() {
	if s.ports.Corpus == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         corpusURI,
		Name:        "corpus",
		Description: "Combined text of every ingested document",
		MIMEType:    "text/plain",
	}, s.handleCorpusResource)
}

func (s *Server) handleCorpusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	corpus, err := s.ports.Corpus.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     corpus,
		}},
	}, nil
}
