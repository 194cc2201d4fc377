package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/logger"
)

// Ingestor scans the documents directory and extracts text blocks.
type Ingestor struct {
	extractors driven.ExtractorRegistry
	exclude    map[string]struct{}
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithExclude skips the given files during a scan. Paths are compared in
// cleaned absolute form, so the corpus snapshot can live beside the documents.
func WithExclude(paths ...string) IngestorOption {
	return func(i *Ingestor) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			i.exclude[absPath(p)] = struct{}{}
		}
	}
}

// NewIngestor creates an ingestor that resolves extractors from registry.
func NewIngestor(registry driven.ExtractorRegistry, opts ...IngestorOption) *Ingestor {
	i := &Ingestor{extractors: registry, exclude: make(map[string]struct{})}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Ingest reads every file directly inside dir in sorted order.
//
// Unsupported files are skipped and failed extractions are recorded; neither
// stops the scan. Excluded files get no outcome at all. The returned report lists one outcome per file. An error is
// returned only when the directory cannot be read, the context is cancelled,
// or no non-blank text was found.
func (i *Ingestor) Ingest(ctx context.Context, dir string) (*domain.IngestReport, error) {
	logger.Info("Scanning folder: %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: documents directory %s not found", domain.ErrConfiguration, dir)
		}
		return nil, fmt.Errorf("read documents directory %s: %w", dir, err)
	}

	report := &domain.IngestReport{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if _, skip := i.exclude[absPath(path)]; skip {
			logger.Debug("Excluded from scan: %s", entry.Name())
			continue
		}

		doc := domain.NewSourceDocument(path)
		outcome := i.ingestFile(ctx, doc)
		report.Outcomes = append(report.Outcomes, outcome)
		report.Blocks = append(report.Blocks, outcome.Blocks...)
	}

	logger.Debug("Ingested %d files: %d ok, %d skipped, %d failed",
		len(report.Outcomes), report.Count(domain.OutcomeOK),
		report.Count(domain.OutcomeSkipped), report.Count(domain.OutcomeFailed))

	if len(report.Blocks) == 0 {
		return report, fmt.Errorf("%w: no text extracted from %s", domain.ErrEmptyCorpus, dir)
	}
	return report, nil
}

// ingestFile extracts one file and drops blank blocks.
func (i *Ingestor) ingestFile(ctx context.Context, doc domain.SourceDocument) domain.FileOutcome {
	outcome := domain.FileOutcome{Path: doc.Path, Format: doc.Format}
	log := logger.With(logger.Fields{"file": doc.Name()})

	if !doc.Format.IsSupported() {
		log.Warn("Skipping unsupported file")
		outcome.Status = domain.OutcomeSkipped
		outcome.Err = fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, doc.Name())
		return outcome
	}

	blocks, err := i.extractors.For(doc.Format).Extract(ctx, doc.Path)
	if err != nil {
		outcome.Status = domain.OutcomeFailed
		outcome.Err = domain.NewExtractionError(doc.Path, err)
		logger.With(logger.Fields{"file": doc.Name(), "error": err.Error()}).Warn("Failed to load")
		return outcome
	}

	for _, b := range blocks {
		if b.IsBlank() {
			continue
		}
		if b.Source == "" {
			b.Source = doc.Path
		}
		outcome.Blocks = append(outcome.Blocks, b)
	}

	outcome.Status = domain.OutcomeOK
	log.Info("Loaded: %s", doc.Name())
	return outcome
}
