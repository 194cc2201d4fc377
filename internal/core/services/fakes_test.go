package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// --- Fake implementations ---

// fakeEmbedder maps texts to vectors by keyword so similarity is predictable.
// A text containing "alpha" points along x, "beta" along y, anything else along z.
type fakeEmbedder struct {
	mu         sync.Mutex
	model      string
	err        error
	short      bool
	embedCalls int
	batchCalls int
	batchSizes []int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{model: "fake-embed"}
}

func (f *fakeEmbedder) vector(text string) []float32 {
	switch {
	case strings.Contains(text, "alpha"):
		return []float32{1, 0, 0}
	case strings.Contains(text, "beta"):
		return []float32{0, 1, 0}
	default:
		return []float32{0, 0, 1}
	}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	f.batchSizes = append(f.batchSizes, len(texts))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, f.vector(t))
	}
	if f.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int             { return 3 }
func (f *fakeEmbedder) ModelName() string           { return f.model }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                { return nil }

// fakeLLM records the messages it receives and returns a canned reply.
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	messages [][]driven.ChatMessage
	options  []driven.ChatOptions
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messages)
	f.options = append(f.options, opts)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string           { return "fake-chat" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                { return nil }

// fakeExtractor returns blocks or an error per file name.
type fakeExtractor struct {
	format domain.Format
	blocks map[string][]domain.TextBlock
	errs   map[string]error
	calls  []string
}

func (f *fakeExtractor) Format() domain.Format { return f.format }

func (f *fakeExtractor) Extract(_ context.Context, path string) ([]domain.TextBlock, error) {
	name := path[strings.LastIndexAny(path, `/\`)+1:]
	f.calls = append(f.calls, name)
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.blocks[name], nil
}

// fakeRegistry resolves every supported format to the same extractor.
type fakeRegistry struct {
	extractor *fakeExtractor
}

func (r *fakeRegistry) For(format domain.Format) driven.Extractor {
	if !format.IsSupported() {
		return &fakeExtractor{format: domain.FormatUnsupported}
	}
	return r.extractor
}

// fakeInstructionStore serves a fixed body or error.
type fakeInstructionStore struct {
	body string
	err  error
}

func (s *fakeInstructionStore) Load() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.body, nil
}

func (s *fakeInstructionStore) Path() string { return "prompt.txt" }

// failingCorpusStore fails every write.
type failingCorpusStore struct{}

func (failingCorpusStore) Write(_ context.Context, _ string) error {
	return fmt.Errorf("write corpus: %w", fs.ErrPermission)
}

func (failingCorpusStore) Read(_ context.Context) (string, error) { return "", fs.ErrNotExist }
func (failingCorpusStore) Path() string                          { return "data/combined.txt" }

// fakeAnswerer answers from a map and fails on unknown questions.
type fakeAnswerer struct {
	answers map[string]string
}

var errUnknownQuestion = errors.New("unknown question")

func (a *fakeAnswerer) Answer(_ context.Context, question string) (domain.Answer, error) {
	text, ok := a.answers[question]
	if !ok {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrQuery, errUnknownQuestion)
	}
	return domain.Answer{Question: question, Text: text}, nil
}

func (a *fakeAnswerer) Invoke(ctx context.Context, input map[string]string) (map[string]string, error) {
	ans, err := a.Answer(ctx, input["query"])
	if err != nil {
		return nil, err
	}
	return map[string]string{"result": ans.Text}, nil
}
