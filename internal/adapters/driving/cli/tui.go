package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragbot/internal/adapters/driven/watcher"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragbot/internal/core/services"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("tui requires an interactive terminal")

var tuiWatch bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the chat terminal UI",
	Long: `Launch a full-screen chat with the assistant.

Controls:
  Enter        - Ask
  PgUp/PgDn    - Scroll the conversation
  Ctrl+S       - Show sources of the last answer
  Esc, Ctrl+C  - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiWatch, "watch", "w", false, "flag the index as stale when the documents folder changes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTerminal() {
		return ErrNotTerminal
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	session, err := app.Start(ctx, services.ModeEmbeddable)
	if err != nil {
		return err
	}

	ui, err := tui.NewApp(&tui.Ports{Session: session})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	ui.WithContext(ctx)

	p := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))

	if tuiWatch {
		stop := watchInBackground(ctx, app, func(c watcher.Change) {
			p.Send(messages.DocumentsChanged{Change: c})
		})
		defer stop()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
