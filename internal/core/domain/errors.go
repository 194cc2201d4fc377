package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Callers classify them with errors.Is.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration indicates a missing credential, instruction file
	// or other startup setting. Fatal.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnsupportedFormat marks a file skipped because its extension
	// is not recognised. Never fatal.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtraction indicates a file of a recognised format could not be parsed.
	// Recorded per file; ingestion continues.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmptyCorpus indicates ingestion produced no text blocks at all. Fatal.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrIndexLoad indicates a persisted index could not be loaded.
	// Recovered by rebuilding; never returned to callers of the index manager.
	ErrIndexLoad = errors.New("index load failed")

	// ErrEmbedding indicates the embedding backend rejected or could not
	// process the corpus during a rebuild. Fatal.
	ErrEmbedding = errors.New("embedding failed")

	// ErrQuery indicates a single question could not be answered.
	// Reported to the user; the session continues.
	ErrQuery = errors.New("query failed")
)

// ExtractionError records which file failed to extract and why.
// It matches both ErrExtraction and the underlying cause.
type ExtractionError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

// Unwrap exposes ErrExtraction and the cause to errors.Is and errors.As.
func (e *ExtractionError) Unwrap() []error {
	return []error{ErrExtraction, e.Err}
}

// NewExtractionError wraps err as an extraction failure for path.
func NewExtractionError(path string, err error) error {
	return &ExtractionError{Path: path, Err: err}
}

// IsFatal reports whether err must abort startup.
// Extraction, unsupported-format, index-load and query failures are recovered
// by the operation that raised them.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrExtraction),
		errors.Is(err, ErrIndexLoad),
		errors.Is(err, ErrQuery):
		return false
	default:
		return true
	}
}
