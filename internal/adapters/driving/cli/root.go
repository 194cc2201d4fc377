// Package cli provides the cobra command tree for ragbot.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragbot/internal/adapters/driven/watcher"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
	"github.com/custodia-labs/ragbot/internal/core/ports/driving"
	"github.com/custodia-labs/ragbot/internal/core/services"
	"github.com/custodia-labs/ragbot/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Application is the assembled bot the commands drive.
type Application interface {
	// Start loads instructions, ingests documents, prepares the index and
	// returns a session. ModeInteractive also runs the console loop.
	Start(ctx context.Context, mode services.Mode) (*services.Session, error)

	// Refresh ingests documents and loads or rebuilds the index.
	Refresh(ctx context.Context, rebuild bool) (*driving.IndexSummary, error)

	// WatchDocuments reports documents directory changes until ctx is done.
	// A nil notify logs a warning per change.
	WatchDocuments(ctx context.Context, notify func(watcher.Change)) error

	// Corpus returns the corpus snapshot store.
	Corpus() driven.CorpusStore

	Close() error
}

// Options are the global settings handed to the application factory.
type Options struct {
	ConfigPath string
	EnvFile    string
	In         io.Reader
	Out        io.Writer
}

// AppFactory builds the application once flags are parsed.
type AppFactory func(opts Options) (Application, error)

var (
	appFactory AppFactory

	configPath string
	envFile    string
	verbose    bool
)

// isTerminal reports whether stdin is a terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "ragbot",
	Short: "Answer questions about a folder of documents",
	Long: `ragbot loads the documents in a folder, indexes them with an embedding
model and answers questions with a chat model grounded on the closest matches.

Running ragbot with no command starts the interactive console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ragbot.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file with credentials (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetAppFactory sets the constructor used by every command.
func SetAppFactory(factory AppFactory) {
	appFactory = factory
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Errors are printed to stderr and exit 1.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openApp builds the application from the global flags.
func openApp(cmd *cobra.Command) (Application, error) {
	if appFactory == nil {
		return nil, errors.New("application not configured")
	}
	return appFactory(Options{
		ConfigPath: configPath,
		EnvFile:    envFile,
		In:         cmd.InOrStdin(),
		Out:        cmd.OutOrStdout(),
	})
}

// watchInBackground runs WatchDocuments until the returned stop is called.
// stop waits for the watcher to exit.
func watchInBackground(ctx context.Context, app Application, notify func(watcher.Change)) (stop func()) {
	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := app.WatchDocuments(watchCtx, notify); err != nil {
			logger.Warn("Watching documents stopped: %v", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
