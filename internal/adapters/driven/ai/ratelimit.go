package ai

import (
	"context"
	"math"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// NewRateLimiter creates a token bucket allowing requestsPerSecond sustained
// calls with a burst of at least one.
func NewRateLimiter(requestsPerSecond float64) *rate.Limiter {
	burst := int(math.Ceil(requestsPerSecond))
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// rateLimitedEmbedding waits on the limiter before each request.
type rateLimitedEmbedding struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

// WithEmbeddingLimit paces Embed and EmbedBatch calls through limiter.
func WithEmbeddingLimit(svc driven.EmbeddingService, limiter *rate.Limiter) driven.EmbeddingService {
	return &rateLimitedEmbedding{EmbeddingService: svc, limiter: limiter}
}

func (r *rateLimitedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.EmbeddingService.Embed(ctx, text)
}

func (r *rateLimitedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.EmbeddingService.EmbedBatch(ctx, texts)
}

// rateLimitedLLM waits on the limiter before each chat request.
type rateLimitedLLM struct {
	driven.LLMService
	limiter *rate.Limiter
}

// WithLLMLimit paces Chat calls through limiter.
func WithLLMLimit(svc driven.LLMService, limiter *rate.Limiter) driven.LLMService {
	return &rateLimitedLLM{LLMService: svc, limiter: limiter}
}

func (r *rateLimitedLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.LLMService.Chat(ctx, messages, opts)
}
