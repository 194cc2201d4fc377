package domain

import "strings"

// CorpusSeparator joins block texts into the corpus.
const CorpusSeparator = "\n\n"

// TextBlock is a unit of text extracted from a source file.
// A multi-page PDF yields one block per page.
type TextBlock struct {
	// ID is the unique identifier for the block.
	ID string

	// Source is the path of the file the text came from.
	Source string

	// Page is the 1-based page number for paged formats, 0 otherwise.
	Page int

	// Text is the extracted content.
	Text string
}

// IsBlank returns true if the block holds only whitespace.
func (b TextBlock) IsBlank() bool {
	return strings.TrimSpace(b.Text) == ""
}

// JoinBlocks concatenates block texts in order with a blank line between them.
func JoinBlocks(blocks []TextBlock) string {
	texts := make([]string, len(blocks))
	for i, b := range blocks {
		texts[i] = b.Text
	}
	return strings.Join(texts, CorpusSeparator)
}

// OutcomeStatus classifies the result of ingesting one file.
type OutcomeStatus int

const (
	// OutcomeOK means the file was extracted.
	OutcomeOK OutcomeStatus = iota

	// OutcomeSkipped means the file had an unsupported extension.
	OutcomeSkipped

	// OutcomeFailed means extraction raised an error.
	OutcomeFailed
)

// String returns the string representation.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeOK:
		return "ok"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileOutcome is the per-file result of ingestion.
type FileOutcome struct {
	Path   string
	Format Format
	Status OutcomeStatus
	Blocks []TextBlock

	// Err is set for skipped and failed files.
	Err error
}

// OK returns true if the file was extracted.
func (o FileOutcome) OK() bool {
	return o.Status == OutcomeOK
}

// IngestReport is the output of a directory scan.
type IngestReport struct {
	// Blocks are all non-blank blocks in enumeration order.
	Blocks []TextBlock

	// Outcomes holds one entry per directory file, in enumeration order.
	Outcomes []FileOutcome
}

// Count returns the number of outcomes with the given status.
func (r *IngestReport) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
