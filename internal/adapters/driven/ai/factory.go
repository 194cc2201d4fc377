// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/ragbot/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragbot/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/ragbot/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/ragbot/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragbot/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Services holds the AI backends used by a pipeline.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
}

// Close releases all resources held by Services.
func (s *Services) Close() {
	if s.Embedding != nil {
		s.Embedding.Close()
	}
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// NewServices creates the embedding and chat services for cfg.
// When cfg.RequestsPerSecond is positive both services share one limiter,
// so embeddings and chat calls are paced together.
func NewServices(cfg domain.PipelineConfig) (*Services, error) {
	embedder, err := CreateEmbeddingService(cfg.Embedding, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	llm, err := CreateLLMService(cfg.LLM, cfg.Timeout)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	if cfg.RequestsPerSecond > 0 {
		limiter := NewRateLimiter(cfg.RequestsPerSecond)
		embedder = WithEmbeddingLimit(embedder, limiter)
		llm = WithLLMLimit(llm, limiter)
	}

	return &Services{Embedding: embedder, LLM: llm}, nil
}

// CreateEmbeddingService creates the embedding service for the configured provider.
func CreateEmbeddingService(settings domain.EmbeddingSettings, timeout time.Duration) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    timeout,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    timeout,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}
		return svc, nil

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use ollama or openai",
			domain.ErrConfiguration)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s", domain.ErrConfiguration, settings.Provider)
	}
}

// CreateLLMService creates the chat service for the configured provider.
func CreateLLMService(settings domain.LLMSettings, timeout time.Duration) (driven.LLMService, error) {
	var (
		svc driven.LLMService
		err error
	)

	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	case domain.AIProviderOpenAI:
		svc, err = openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	case domain.AIProviderAnthropic:
		svc, err = anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", domain.ErrConfiguration, settings.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return svc, nil
}
