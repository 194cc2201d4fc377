package mcp

import (
	"context"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   domain.Answer
	err      error
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

func (m *mockAnswerService) Invoke(ctx context.Context, input map[string]string) (map[string]string, error) {
	a, err := m.Answer(ctx, input["query"])
	if err != nil {
		return nil, err
	}
	return map[string]string{"result": a.Text}, nil
}

// mockCorpus is a mock CorpusReader.
type mockCorpus struct {
	text string
	err  error
}

func (m *mockCorpus) Read(_ context.Context) (string, error) {
	return m.text, m.err
}
