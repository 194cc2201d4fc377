package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the question to answer from the indexed documents"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Result  string         `json:"result"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one span the answer was conditioned on.
type SourceOutput struct {
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
	Text   string `json:"text"`
}

// maxSourceText bounds the excerpt returned per source.
const maxSourceText = 500

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using the indexed documents",
	}, s.handleQuery)
}

// handleQuery answers the question and lists the retrieved spans, most similar first.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, input.Query)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Result:  answer.Text,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, b := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Source: b.Source,
			Page:   b.Page,
			Text:   excerpt(b.Text, maxSourceText),
		}
	}

	return nil, output, nil
}

// excerpt truncates text to at most n runes.
func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
