package services

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/core/ports/driving"
	"github.com/custodia-labs/ragbot/internal/logger"
)

// Ensure RetrievalChain implements the interface.
var _ driving.AnswerService = (*RetrievalChain)(nil)

// questionTemplate is the human message sent with every query.
const questionTemplate = "Context:\n%s\n\nQuestion:\n%s"

// ChainOptions configures a retrieval chain.
type ChainOptions struct {
	// TopK is the number of spans retrieved per query. Zero uses domain.DefaultTopK.
	TopK int

	// Temperature is passed to the chat model on every request.
	Temperature float64

	// CacheSize bounds the query embedding cache. Zero disables it.
	CacheSize int
}

// DefaultChainOptions returns the options used by the pipeline.
func DefaultChainOptions() ChainOptions {
	return ChainOptions{
		TopK:        domain.DefaultTopK,
		Temperature: domain.Temperature,
		CacheSize:   domain.DefaultQueryCacheSize,
	}
}

// RetrievalChain answers questions with the top-k spans of the index as context.
// It is read-only after construction and safe for concurrent use.
type RetrievalChain struct {
	index     driven.VectorIndex
	directive domain.Directive
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	topK      int
	temp      float64
	cache     *lru.Cache[string, []float32]
}

// BuildChain wires the index, directive and models into a chain.
func BuildChain(
	index driven.VectorIndex,
	directive domain.Directive,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	opts ChainOptions,
) *RetrievalChain {
	if opts.TopK <= 0 {
		opts.TopK = domain.DefaultTopK
	}

	c := &RetrievalChain{
		index:     index,
		directive: directive,
		embedder:  embedder,
		llm:       llm,
		topK:      opts.TopK,
		temp:      opts.Temperature,
	}
	if opts.CacheSize > 0 {
		// lru.New only fails for a non-positive size.
		c.cache, _ = lru.New[string, []float32](opts.CacheSize)
	}
	return c
}

// Answer retrieves context for question and asks the chat model.
// Every error wraps domain.ErrQuery.
func (c *RetrievalChain) Answer(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: %w: empty question", domain.ErrQuery, domain.ErrInvalidInput)
	}

	logger.Section("Query")
	logger.Debug("Question: %q", question)

	vector, err := c.embedQuery(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: embed question: %w", domain.ErrQuery, err)
	}

	hits, err := c.index.Search(ctx, vector, c.topK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: search index: %w", domain.ErrQuery, err)
	}
	logger.Debug("Retrieved %d spans", len(hits))

	sources := make([]domain.TextBlock, len(hits))
	for i, h := range hits {
		sources[i] = h.Block
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: c.directive.Text()},
		{Role: driven.RoleUser, Content: fmt.Sprintf(questionTemplate, domain.JoinBlocks(sources), question)},
	}

	text, err := c.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: c.temp})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrQuery, err)
	}

	return domain.Answer{Question: question, Text: text, Sources: sources}, nil
}

// Invoke answers input["query"] and returns {"result": answer}.
func (c *RetrievalChain) Invoke(ctx context.Context, input map[string]string) (map[string]string, error) {
	answer, err := c.Answer(ctx, input[driving.InputQuery])
	if err != nil {
		return nil, err
	}
	return map[string]string{driving.OutputResult: answer.Text}, nil
}

// embedQuery embeds question, consulting the cache first.
func (c *RetrievalChain) embedQuery(ctx context.Context, question string) ([]float32, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(question); ok {
			logger.Debug("Query embedding cache hit")
			return v, nil
		}
	}

	v, err := c.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(question, v)
	}
	return v, nil
}
