package domain

import (
	"path/filepath"
	"strings"
)

// Format is the closed set of document formats the ingestor recognises.
// It is resolved once per file from the extension.
type Format int

const (
	// FormatUnsupported is any extension without an extractor.
	FormatUnsupported Format = iota

	// FormatPlainText covers .txt files.
	FormatPlainText

	// FormatPDF covers .pdf files.
	FormatPDF

	// FormatWord covers .doc and .docx files.
	FormatWord
)

// extensionFormats maps lower-cased extensions to formats.
var extensionFormats = map[string]Format{
	".txt":  FormatPlainText,
	".pdf":  FormatPDF,
	".doc":  FormatWord,
	".docx": FormatWord,
}

// FormatFromPath resolves the format of path by its extension, ignoring case.
func FormatFromPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	return FormatUnsupported
}

// String returns the string representation.
func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "text"
	case FormatPDF:
		return "pdf"
	case FormatWord:
		return "word"
	default:
		return "unsupported"
	}
}

// IsSupported returns true if an extractor exists for this format.
func (f Format) IsSupported() bool {
	return f != FormatUnsupported
}

// SourceDocument is a file discovered during a directory scan.
type SourceDocument struct {
	// Path is the file location.
	Path string

	// Format is the format declared by the file extension.
	Format Format
}

// NewSourceDocument creates a SourceDocument with its format resolved from path.
func NewSourceDocument(path string) SourceDocument {
	return SourceDocument{Path: path, Format: FormatFromPath(path)}
}

// Name returns the base file name.
func (d SourceDocument) Name() string {
	return filepath.Base(d.Path)
}
