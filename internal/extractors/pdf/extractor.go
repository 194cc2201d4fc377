// Package pdf extracts text from PDF files, one block per page.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// mimePDF is the sniffed content type a .pdf file must have.
const mimePDF = "application/pdf"

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the document format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatPDF
}

// Extract returns one block per page that carries text, numbered from 1.
// Pages without extractable text (e.g. scans) are skipped.
func (e *Extractor) Extract(ctx context.Context, path string) (blocks []domain.TextBlock, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if !mt.Is(mimePDF) {
		return nil, fmt.Errorf("%w: content is %s, not a PDF", domain.ErrInvalidInput, mt.String())
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			blocks = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		blocks = append(blocks, domain.TextBlock{
			ID:     uuid.New().String(),
			Source: path,
			Page:   i,
			Text:   text,
		})
	}

	return blocks, nil
}
