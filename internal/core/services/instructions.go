package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/logger"
)

// InstructionLoader turns the instruction file into the system directive.
type InstructionLoader struct {
	store   driven.InstructionStore
	persona string
}

// NewInstructionLoader creates a loader reading from store.
// An empty persona falls back to domain.DefaultPersona.
func NewInstructionLoader(store driven.InstructionStore, persona string) *InstructionLoader {
	return &InstructionLoader{store: store, persona: persona}
}

// Load reads the instruction file and returns the directive.
// A missing file is a configuration error.
func (l *InstructionLoader) Load(ctx context.Context) (domain.Directive, error) {
	if err := ctx.Err(); err != nil {
		return domain.Directive{}, err
	}

	body, err := l.store.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Directive{}, fmt.Errorf("%w: instruction file %s not found", domain.ErrConfiguration, l.store.Path())
		}
		return domain.Directive{}, fmt.Errorf("load instructions %s: %w", l.store.Path(), err)
	}

	if strings.TrimSpace(body) == "" {
		logger.With(logger.Fields{"file": l.store.Path()}).Warn("Instruction file is empty")
	}
	logger.Debug("Loaded instructions from %s (%d bytes)", l.store.Path(), len(body))

	return domain.NewDirective(l.persona, body), nil
}
