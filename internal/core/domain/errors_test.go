package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotFound", ErrNotFound},
		{"ErrConfiguration", ErrConfiguration},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrExtraction", ErrExtraction},
		{"ErrEmptyCorpus", ErrEmptyCorpus},
		{"ErrIndexLoad", ErrIndexLoad},
		{"ErrEmbedding", ErrEmbedding},
		{"ErrQuery", ErrQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrInvalidInput, ErrNotFound, ErrConfiguration, ErrUnsupportedFormat,
		ErrExtraction, ErrEmptyCorpus, ErrIndexLoad, ErrEmbedding, ErrQuery,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestExtractionError(t *testing.T) {
	err := NewExtractionError("data/cv.pdf", fs.ErrPermission)

	assert.True(t, errors.Is(err, ErrExtraction))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "data/cv.pdf")

	var extErr *ExtractionError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &extErr))
	assert.Equal(t, "data/cv.pdf", extErr.Path)
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"configuration", fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrConfiguration), true},
		{"empty corpus", ErrEmptyCorpus, true},
		{"embedding", fmt.Errorf("%w: backend down", ErrEmbedding), true},
		{"unsupported", ErrUnsupportedFormat, false},
		{"extraction", NewExtractionError("a.pdf", errors.New("bad xref")), false},
		{"index load", fmt.Errorf("%w: missing manifest", ErrIndexLoad), false},
		{"query", fmt.Errorf("%w: timeout", ErrQuery), false},
		{"unclassified", errors.New("disk full"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}
