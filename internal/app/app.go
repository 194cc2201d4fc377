// Package app is the composition root. It reads configuration, builds the
// driven adapters and hands a ready pipeline to the driving adapters.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragbot/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragbot/internal/adapters/driven/config"
	"github.com/custodia-labs/ragbot/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragbot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragbot/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragbot/internal/adapters/driven/watcher"
	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/core/ports/driving"
	"github.com/custodia-labs/ragbot/internal/core/services"
	"github.com/custodia-labs/ragbot/internal/extractors"
	"github.com/custodia-labs/ragbot/internal/logger"
	"github.com/custodia-labs/ragbot/internal/postprocessors/chunker"
)

// DefaultEnvFile is read for credentials when no env file is named.
const DefaultEnvFile = ".env"

// Options configures application assembly.
type Options struct {
	// ConfigPath is the TOML or YAML config file. Empty uses ragbot.toml.
	ConfigPath string

	// EnvFile is loaded into the environment before credentials are read.
	// Empty tries .env and ignores its absence.
	EnvFile string

	// In and Out carry the interactive console.
	In  io.Reader
	Out io.Writer

	// Getenv reads credentials. Defaults to os.Getenv.
	Getenv func(string) string

	// Services overrides the AI backends built from config. Used by tests.
	Services *ai.Services
}

// App holds the assembled pipeline.
type App struct {
	cfg      domain.PipelineConfig
	ai       *ai.Services
	pipeline *services.Pipeline
	corpus   driven.CorpusStore
}

// New loads configuration and wires every component.
func New(opts Options) (*App, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	store, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	cfg, err := config.LoadPipelineConfig(store, getenv)
	if err != nil {
		return nil, err
	}
	logger.Debug("Config loaded from %s", store.Path())

	aiServices := opts.Services
	if aiServices == nil {
		aiServices, err = ai.NewServices(cfg)
		if err != nil {
			return nil, err
		}
	}

	corpus := file.NewCorpusStore(cfg.CorpusPath)
	return &App{
		cfg:      cfg,
		ai:       aiServices,
		pipeline: newPipeline(cfg, aiServices, corpus, opts.In, opts.Out),
		corpus:   corpus,
	}, nil
}

// newPipeline builds the services over file-backed stores.
func newPipeline(cfg domain.PipelineConfig, aiServices *ai.Services, corpus driven.CorpusStore, in io.Reader, out io.Writer) *services.Pipeline {
	indexOpts := []services.IndexManagerOption{services.WithCorpusSource(cfg.CorpusPath)}
	if cfg.ChunkSize > 0 {
		var splitter driven.SpanSplitter = chunker.New(
			chunker.WithChunkSize(cfg.ChunkSize),
			chunker.WithOverlap(cfg.ChunkOverlap),
		)
		indexOpts = append(indexOpts, services.WithSplitter(splitter))
	}

	return services.NewPipeline(services.PipelineDeps{
		Instructions: services.NewInstructionLoader(file.NewInstructionStore(cfg.InstructionsPath), cfg.Persona),
		Ingestor:     services.NewIngestor(extractors.Default(), services.WithExclude(cfg.CorpusPath)),
		Corpus:       services.NewCorpusCache(corpus),
		Indexes: services.NewIndexManager(
			sqlite.NewIndexStore(cfg.IndexDir),
			aiServices.Embedding,
			memory.OpenVectorIndex,
			indexOpts...,
		),
		Embedder:     aiServices.Embedding,
		LLM:          aiServices.LLM,
		DocumentsDir: cfg.DocumentsDir,
		Chain: services.ChainOptions{
			TopK:        domain.DefaultTopK,
			Temperature: domain.Temperature,
			CacheSize:   cfg.QueryCacheSize,
		},
		In:  in,
		Out: out,
	})
}

// loadEnvFile reads credentials from an env file. Variables already set win.
func loadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: load %s: %w", domain.ErrConfiguration, DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: load %s: %w", domain.ErrConfiguration, path, err)
	}
	return nil
}

// Config returns the resolved configuration.
func (a *App) Config() domain.PipelineConfig {
	return a.cfg
}

// Start runs the pipeline. See services.Pipeline.Start.
func (a *App) Start(ctx context.Context, mode services.Mode) (*services.Session, error) {
	return a.pipeline.Start(ctx, mode)
}

// Refresh rebuilds the corpus snapshot and index. See services.Pipeline.Refresh.
func (a *App) Refresh(ctx context.Context, rebuild bool) (*driving.IndexSummary, error) {
	return a.pipeline.Refresh(ctx, rebuild)
}

// WatchDocuments reports changes to the documents directory made after the
// index was prepared. Changes go to notify, or are logged as warnings when
// notify is nil. Writes to the corpus snapshot are not reported. It blocks
// until ctx is cancelled.
func (a *App) WatchDocuments(ctx context.Context, notify func(watcher.Change)) error {
	if notify == nil {
		notify = func(c watcher.Change) {
			logger.With(logger.Fields{"file": c.Path, "op": c.Op}).
				Warn("Documents changed; run 'ragbot index --rebuild' to refresh the index")
		}
	}
	return watcher.New(a.cfg.DocumentsDir, notify, watcher.WithIgnore(a.cfg.CorpusPath)).Watch(ctx)
}

// Corpus returns the corpus snapshot store.
func (a *App) Corpus() driven.CorpusStore {
	return a.corpus
}

// Close releases the AI backends.
func (a *App) Close() error {
	a.ai.Close()
	return nil
}
