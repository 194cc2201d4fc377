package mcp

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer and sources", func(t *testing.T) {
		answers := &mockAnswerService{answer: domain.Answer{
			Question: "q",
			Text:     "the answer",
			Sources: []domain.TextBlock{
				{Source: "data/cv.pdf", Page: 2, Text: "page two"},
				{Source: "data/notes.txt", Text: "notes"},
			},
		}}
		server, err := NewServer(&Ports{Answer: answers})
		require.NoError(t, err)

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "q"})
		require.NoError(t, err)

		assert.Equal(t, "the answer", output.Result)
		require.Len(t, output.Sources, 2)
		assert.Equal(t, SourceOutput{Source: "data/cv.pdf", Page: 2, Text: "page two"}, output.Sources[0])
		assert.Equal(t, "data/notes.txt", output.Sources[1].Source)
	})

	t.Run("long source text is truncated", func(t *testing.T) {
		long := strings.Repeat("é", maxSourceText+10)
		answers := &mockAnswerService{answer: domain.Answer{Sources: []domain.TextBlock{{Text: long}}}}
		server, err := NewServer(&Ports{Answer: answers})
		require.NoError(t, err)

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "q"})
		require.NoError(t, err)
		assert.Equal(t, maxSourceText+1, len([]rune(output.Sources[0].Text)))
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		answers := &mockAnswerService{err: fmt.Errorf("%w: HTTP 500", domain.ErrQuery)}
		server, err := NewServer(&Ports{Answer: answers})
		require.NoError(t, err)

		_, _, err = server.handleQuery(ctx, nil, QueryInput{Query: "q"})
		assert.ErrorIs(t, err, domain.ErrQuery)
	})
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdef", 3, "abc…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, excerpt(tt.text, tt.n))
		})
	}
}
