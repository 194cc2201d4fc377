package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Default pipeline settings.
const (
	DefaultDocumentsDir     = "data"
	DefaultCorpusPath       = "data/combined.txt"
	DefaultIndexDir         = "data/index"
	DefaultInstructionsPath = "prompt.txt"
	DefaultEmbeddingModel   = "text-embedding-3-large"
	DefaultLLMModel         = "gpt-4o-mini"
	DefaultTopK             = 20
	DefaultQueryCacheSize   = 128
	DefaultAITimeout        = 120 * time.Second
)

// Temperature is the sampling temperature used for every answer.
const Temperature = 0.0

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbeddings returns true if the provider can produce embeddings.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOpenAI || p == AIProviderOllama
}

// CredentialEnv returns the environment variable holding the provider's API key.
func (p AIProvider) CredentialEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's default vector size. Zero keeps the default.
	Dimensions int
}

// Validate checks the embedding settings are usable.
func (e EmbeddingSettings) Validate() error {
	if !e.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrConfiguration, e.Provider)
	}
	if !e.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: %s does not support embeddings", ErrConfiguration, e.Provider)
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return fmt.Errorf("%w: %s is not set", ErrConfiguration, e.Provider.CredentialEnv())
	}
	return nil
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// Validate checks the LLM settings are usable.
func (l LLMSettings) Validate() error {
	if !l.Provider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", ErrConfiguration, l.Provider)
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return fmt.Errorf("%w: %s is not set", ErrConfiguration, l.Provider.CredentialEnv())
	}
	return nil
}

// PipelineConfig is the single configuration value for a pipeline run.
// It is built once at startup and passed explicitly to every component.
type PipelineConfig struct {
	// DocumentsDir is scanned for source files.
	DocumentsDir string

	// CorpusPath is the corpus snapshot file, rewritten every run.
	CorpusPath string

	// IndexDir holds the persisted semantic index.
	IndexDir string

	// InstructionsPath is the instruction file read into the system directive.
	InstructionsPath string

	// Persona is the name used in the directive preamble.
	Persona string

	Embedding EmbeddingSettings
	LLM       LLMSettings

	// RequestsPerSecond paces calls to the AI backends. Zero means unlimited.
	RequestsPerSecond float64

	// Timeout bounds each AI backend request.
	Timeout time.Duration

	// ChunkSize splits the corpus before embedding when positive.
	// Zero embeds the corpus as a single span.
	ChunkSize int

	// ChunkOverlap is the overlap between chunks when ChunkSize is positive.
	ChunkOverlap int

	// QueryCacheSize bounds the query embedding cache. Zero disables it.
	QueryCacheSize int
}

// DefaultPipelineConfig returns the configuration used when no file overrides it.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		DocumentsDir:     DefaultDocumentsDir,
		CorpusPath:       DefaultCorpusPath,
		IndexDir:         DefaultIndexDir,
		InstructionsPath: DefaultInstructionsPath,
		Persona:          DefaultPersona,
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModel,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModel,
		},
		Timeout:        DefaultAITimeout,
		QueryCacheSize: DefaultQueryCacheSize,
	}
}

// Validate checks the configuration is complete.
// Every failure wraps ErrConfiguration.
func (c PipelineConfig) Validate() error {
	if c.DocumentsDir == "" {
		return fmt.Errorf("%w: documents directory is empty", ErrConfiguration)
	}
	if c.CorpusPath == "" {
		return fmt.Errorf("%w: corpus path is empty", ErrConfiguration)
	}
	if c.IndexDir == "" {
		return fmt.Errorf("%w: index directory is empty", ErrConfiguration)
	}
	if c.InstructionsPath == "" {
		return fmt.Errorf("%w: instructions path is empty", ErrConfiguration)
	}
	if c.ChunkSize < 0 || c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk size and overlap must not be negative", ErrConfiguration)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", ErrConfiguration)
	}
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	return c.LLM.Validate()
}
