// Package config builds the pipeline configuration from a ConfigStore and
// the process environment.
package config

import (
	"time"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyDocumentsDir      = "paths.documents"
	KeyCorpusPath        = "paths.corpus"
	KeyIndexDir          = "paths.index"
	KeyInstructionsPath  = "paths.instructions"
	KeyPersona           = "assistant.persona"
	KeyEmbeddingProvider = "embedding.provider"
	KeyEmbeddingModel    = "embedding.model"
	KeyEmbeddingBaseURL  = "embedding.base_url"
	KeyEmbeddingDims     = "embedding.dimensions"
	KeyLLMProvider       = "llm.provider"
	KeyLLMModel          = "llm.model"
	KeyLLMBaseURL        = "llm.base_url"
	KeyRequestsPerSecond = "ai.requests_per_second"
	KeyTimeoutSeconds    = "ai.timeout_seconds"
	KeyChunkSize         = "index.chunk_size"
	KeyChunkOverlap      = "index.chunk_overlap"
	KeyQueryCacheSize    = "query.cache_size"
)

// LoadPipelineConfig builds a PipelineConfig from the store, falling back to
// defaults for absent keys. API keys are read through getenv using each
// provider's credential variable. The result is validated.
func LoadPipelineConfig(store driven.ConfigStore, getenv func(string) string) (domain.PipelineConfig, error) {
	cfg := domain.DefaultPipelineConfig()

	setString(store, KeyDocumentsDir, &cfg.DocumentsDir)
	setString(store, KeyCorpusPath, &cfg.CorpusPath)
	setString(store, KeyIndexDir, &cfg.IndexDir)
	setString(store, KeyInstructionsPath, &cfg.InstructionsPath)
	setString(store, KeyPersona, &cfg.Persona)

	if p := store.GetString(KeyEmbeddingProvider); p != "" {
		cfg.Embedding.Provider = domain.AIProvider(p)
		cfg.Embedding.Model = providerDefaultModel(cfg.Embedding.Provider, domain.DefaultEmbeddingModel)
	}
	setString(store, KeyEmbeddingModel, &cfg.Embedding.Model)
	setString(store, KeyEmbeddingBaseURL, &cfg.Embedding.BaseURL)
	setInt(store, KeyEmbeddingDims, &cfg.Embedding.Dimensions)
	cfg.Embedding.APIKey = credential(cfg.Embedding.Provider, getenv)

	if p := store.GetString(KeyLLMProvider); p != "" {
		cfg.LLM.Provider = domain.AIProvider(p)
		cfg.LLM.Model = providerDefaultModel(cfg.LLM.Provider, domain.DefaultLLMModel)
	}
	setString(store, KeyLLMModel, &cfg.LLM.Model)
	setString(store, KeyLLMBaseURL, &cfg.LLM.BaseURL)
	cfg.LLM.APIKey = credential(cfg.LLM.Provider, getenv)

	if _, ok := store.Get(KeyRequestsPerSecond); ok {
		cfg.RequestsPerSecond = store.GetFloat(KeyRequestsPerSecond)
	}
	if secs := store.GetFloat(KeyTimeoutSeconds); secs > 0 {
		cfg.Timeout = time.Duration(secs * float64(time.Second))
	}

	setInt(store, KeyChunkSize, &cfg.ChunkSize)
	setInt(store, KeyChunkOverlap, &cfg.ChunkOverlap)
	setInt(store, KeyQueryCacheSize, &cfg.QueryCacheSize)

	if err := cfg.Validate(); err != nil {
		return domain.PipelineConfig{}, err
	}
	return cfg, nil
}

// providerDefaultModel keeps the OpenAI default and otherwise leaves the
// model empty so the adapter applies its own default.
func providerDefaultModel(p domain.AIProvider, openAIDefault string) string {
	if p == domain.AIProviderOpenAI {
		return openAIDefault
	}
	return ""
}

func credential(p domain.AIProvider, getenv func(string) string) string {
	if env := p.CredentialEnv(); env != "" {
		return getenv(env)
	}
	return ""
}

func setString(store driven.ConfigStore, key string, dst *string) {
	if v := store.GetString(key); v != "" {
		*dst = v
	}
}

// setInt overrides dst whenever the key is present, including explicit zeros.
func setInt(store driven.ConfigStore, key string, dst *int) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetInt(key)
	}
}
