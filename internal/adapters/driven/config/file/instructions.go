package file

import (
	"fmt"
	"os"
	"sync"

	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure InstructionStore implements the interface.
var _ driven.InstructionStore = (*InstructionStore)(nil)

// InstructionStore reads the user-editable instruction document.
// The content is returned verbatim and cached after the first successful read.
type InstructionStore struct {
	mu     sync.RWMutex
	path   string
	cached *string
}

// NewInstructionStore creates a store for the file at path.
// The constructor does not perform any I/O.
func NewInstructionStore(path string) *InstructionStore {
	return &InstructionStore{path: path}
}

// Load returns the instruction text.
// A missing file returns an error matching fs.ErrNotExist.
func (s *InstructionStore) Load() (string, error) {
	s.mu.RLock()
	if s.cached != nil {
		text := *s.cached
		s.mu.RUnlock()
		return text, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read instructions %s: %w", s.path, err)
	}
	text := string(data)

	s.mu.Lock()
	if s.cached == nil {
		s.cached = &text
	} else {
		text = *s.cached
	}
	s.mu.Unlock()

	return text, nil
}

// Reload clears the cache, forcing a fresh read from disk.
func (s *InstructionStore) Reload() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Path returns the instruction file path.
func (s *InstructionStore) Path() string {
	return s.path
}
