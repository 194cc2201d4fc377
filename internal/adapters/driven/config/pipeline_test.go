package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragbot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragbot/internal/core/domain"
)

func envWith(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadPipelineConfig_Defaults(t *testing.T) {
	store := memory.NewConfigStore(nil)

	cfg, err := LoadPipelineConfig(store, envWith(map[string]string{"OPENAI_API_KEY": "sk-test"}))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DocumentsDir)
	assert.Equal(t, "data/combined.txt", cfg.CorpusPath)
	assert.Equal(t, "data/index", cfg.IndexDir)
	assert.Equal(t, "prompt.txt", cfg.InstructionsPath)
	assert.Equal(t, domain.DefaultPersona, cfg.Persona)
	assert.Equal(t, domain.AIProviderOpenAI, cfg.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, domain.DefaultQueryCacheSize, cfg.QueryCacheSize)
	assert.Zero(t, cfg.ChunkSize)
}

func TestLoadPipelineConfig_MissingCredential(t *testing.T) {
	_, err := LoadPipelineConfig(memory.NewConfigStore(nil), envWith(nil))

	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadPipelineConfig_Overrides(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyDocumentsDir:      "docs",
		KeyPersona:           "Ada",
		KeyEmbeddingProvider: "ollama",
		KeyEmbeddingDims:     int64(768),
		KeyLLMProvider:       "anthropic",
		KeyLLMModel:          "claude-3-5-haiku-latest",
		KeyRequestsPerSecond: 1.5,
		KeyTimeoutSeconds:    int64(30),
		KeyChunkSize:         int64(800),
		KeyChunkOverlap:      int64(100),
		KeyQueryCacheSize:    int64(0),
	})

	cfg, err := LoadPipelineConfig(store, envWith(map[string]string{"ANTHROPIC_API_KEY": "ak"}))
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.DocumentsDir)
	assert.Equal(t, "Ada", cfg.Persona)
	assert.Equal(t, domain.AIProviderOllama, cfg.Embedding.Provider)
	assert.Empty(t, cfg.Embedding.Model)
	assert.Empty(t, cfg.Embedding.APIKey)
	assert.Equal(t, 768, cfg.Embedding.Dimensions)
	assert.Equal(t, domain.AIProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.LLM.Model)
	assert.Equal(t, "ak", cfg.LLM.APIKey)
	assert.InDelta(t, 1.5, cfg.RequestsPerSecond, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Zero(t, cfg.QueryCacheSize)
}

func TestLoadPipelineConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"unknown embedding provider", map[string]any{KeyEmbeddingProvider: "cohere"}},
		{"anthropic cannot embed", map[string]any{KeyEmbeddingProvider: "anthropic"}},
		{"unknown llm provider", map[string]any{KeyLLMProvider: "mystery"}},
		{"negative chunk size", map[string]any{KeyChunkSize: -1}},
		{"negative rate", map[string]any{KeyRequestsPerSecond: -2.0}},
	}

	env := envWith(map[string]string{"OPENAI_API_KEY": "sk", "ANTHROPIC_API_KEY": "ak"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPipelineConfig(memory.NewConfigStore(tt.values), env)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}
