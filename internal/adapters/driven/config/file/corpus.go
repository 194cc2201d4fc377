package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore keeps the corpus snapshot in a single UTF-8 file.
type CorpusStore struct {
	path string
}

// NewCorpusStore creates a store for the snapshot file at path.
func NewCorpusStore(path string) *CorpusStore {
	return &CorpusStore{path: path}
}

// Write replaces the snapshot. The content goes to a temporary file in the
// same directory which is synced and renamed over the snapshot, so a failed
// write leaves the previous snapshot intact.
func (s *CorpusStore) Write(ctx context.Context, corpus string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp corpus: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(corpus); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write corpus: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close corpus: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod corpus: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace corpus %s: %w", s.path, err)
	}
	return nil
}

// Read returns the current snapshot.
func (s *CorpusStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read corpus %s: %w", s.path, err)
	}
	return string(data), nil
}

// Path returns the snapshot file path.
func (s *CorpusStore) Path() string {
	return s.path
}
