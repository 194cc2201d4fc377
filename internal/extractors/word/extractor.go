// Package word extracts text from Word documents.
// .docx files are read directly from their OOXML package; legacy binary
// .doc files are converted with antiword.
package word

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DefaultAntiword is the converter used for legacy .doc files.
const DefaultAntiword = "antiword"

// Sniffed content types.
const (
	mimeZip = "application/zip"
	mimeOLE = "application/x-ole-storage"
)

// Extractor handles .doc and .docx documents.
type Extractor struct {
	runner   driven.CommandRunner
	antiword string
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRunner sets the command runner used for legacy .doc conversion.
func WithRunner(r driven.CommandRunner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithAntiword sets the converter binary name or path.
func WithAntiword(bin string) Option {
	return func(e *Extractor) {
		if bin != "" {
			e.antiword = bin
		}
	}
}

// New creates a new Word extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		runner:   ExecRunner{},
		antiword: DefaultAntiword,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Format returns the document format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatWord
}

// Extract returns the document text as a single block.
// The payload is sniffed rather than trusted: a .doc that is really
// an OOXML package is parsed as .docx.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.TextBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}

	var text string
	switch {
	case descendsFrom(mt, mimeZip):
		text, err = extractDocx(path)
	case descendsFrom(mt, mimeOLE):
		text, err = e.extractLegacy(ctx, path)
	default:
		return nil, fmt.Errorf("%w: content is %s, not a Word document", domain.ErrInvalidInput, mt.String())
	}
	if err != nil {
		return nil, err
	}

	return []domain.TextBlock{{
		ID:     uuid.New().String(),
		Source: path,
		Text:   text,
	}}, nil
}

// descendsFrom reports whether mt or one of its parents is want.
func descendsFrom(mt *mimetype.MIME, want string) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}

// extractLegacy converts a binary .doc with antiword.
func (e *Extractor) extractLegacy(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, e.antiword, path)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("legacy .doc needs %s on PATH: %w", e.antiword, err)
		}
		return "", fmt.Errorf("convert legacy .doc: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// extractDocx reads word/document.xml from the package at path.
func extractDocx(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: open docx: %v", domain.ErrInvalidInput, err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document part: %w", err)
		}
		defer rc.Close()

		return parseDocumentXML(rc)
	}
	return "", fmt.Errorf("%w: docx has no word/document.xml", domain.ErrInvalidInput)
}

// parseDocumentXML walks the WordprocessingML body and returns its text.
// Paragraphs end with a newline; tabs and breaks map to their characters.
// Table cell text is kept because cells hold ordinary paragraphs.
func parseDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		result strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parse document.xml: %v", domain.ErrInvalidInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				result.WriteString("\t")
			case "br", "cr":
				result.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				result.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				result.Write(t)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}
