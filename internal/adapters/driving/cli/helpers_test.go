package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/ragbot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragbot/internal/adapters/driven/watcher"
	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/core/ports/driving"
	"github.com/custodia-labs/ragbot/internal/core/services"
	"github.com/custodia-labs/ragbot/internal/logger"
)

// fakeAnswerer echoes questions and fails on "fail".
type fakeAnswerer struct{}

func (fakeAnswerer) Answer(_ context.Context, q string) (domain.Answer, error) {
	if q == "fail" {
		return domain.Answer{}, fmt.Errorf("%w: model unavailable", domain.ErrQuery)
	}
	return domain.Answer{
		Question: q,
		Text:     "answer to " + q,
		Sources: []domain.TextBlock{
			{Source: "data/combined.txt", Text: "corpus text"},
			{Source: "data/cv.pdf", Page: 2, Text: "page two"},
		},
	}, nil
}

func (a fakeAnswerer) Invoke(ctx context.Context, in map[string]string) (map[string]string, error) {
	answer, err := a.Answer(ctx, in[driving.InputQuery])
	if err != nil {
		return nil, err
	}
	return map[string]string{driving.OutputResult: answer.Text}, nil
}

// fakeApp records how the commands drive it.
type fakeApp struct {
	opts Options

	startErr   error
	refreshErr error
	summary    *driving.IndexSummary
	corpus     *memory.CorpusStore

	mu       sync.Mutex
	modes    []services.Mode
	rebuilds []bool
	watched  bool
	closed   bool
}

func newFakeApp() *fakeApp {
	return &fakeApp{corpus: memory.NewCorpusStore()}
}

func (f *fakeApp) Start(ctx context.Context, mode services.Mode) (*services.Session, error) {
	f.mu.Lock()
	f.modes = append(f.modes, mode)
	f.mu.Unlock()

	if f.startErr != nil {
		return nil, f.startErr
	}
	session := services.NewSession(fakeAnswerer{})
	if mode == services.ModeInteractive {
		return session, session.RunInteractive(ctx, f.opts.In, f.opts.Out)
	}
	return session, nil
}

func (f *fakeApp) Refresh(_ context.Context, rebuild bool) (*driving.IndexSummary, error) {
	f.mu.Lock()
	f.rebuilds = append(f.rebuilds, rebuild)
	f.mu.Unlock()
	return f.summary, f.refreshErr
}

func (f *fakeApp) WatchDocuments(ctx context.Context, _ func(watcher.Change)) error {
	f.mu.Lock()
	f.watched = true
	f.mu.Unlock()
	<-ctx.Done()
	return nil
}

func (f *fakeApp) Corpus() driven.CorpusStore {
	return f.corpus
}

func (f *fakeApp) Close() error {
	f.closed = true
	return nil
}

// setupTestApp installs app as the factory result and resets global flags.
func setupTestApp(t *testing.T, app *fakeApp) {
	t.Helper()

	resetFlags := func() {
		configPath, envFile, verbose = "", "", false
		chatWatch, chatQuiet = false, false
		askSources, askJSON = false, false
		indexRebuild = false
		tuiWatch = false
		mcpPort = 0
	}
	resetFlags()

	originalFactory, originalTerminal := appFactory, isTerminal
	SetAppFactory(func(opts Options) (Application, error) {
		app.opts = opts
		return app, nil
	})
	isTerminal = func() bool { return true }

	t.Cleanup(func() {
		appFactory, isTerminal = originalFactory, originalTerminal
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		logger.SetVerbose(false)
	})
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}
