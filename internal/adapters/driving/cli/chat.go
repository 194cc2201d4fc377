package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragbot/internal/core/services"
)

var (
	chatWatch bool
	chatQuiet bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive console",
	Long: `Loads the documents, prepares the index and answers questions typed at
the Query: prompt. Type exit or quit to leave.

With --quiet and piped input the banner and prompts are left out, so each
input line produces one Answer: or Error: line.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVarP(&chatWatch, "watch", "w", false, "warn when the documents folder changes")
	chatCmd.Flags().BoolVarP(&chatQuiet, "quiet", "q", false, "omit banner and prompts when stdin is not a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if chatWatch {
		stop := watchInBackground(ctx, app, nil)
		defer stop()
	}

	if chatQuiet && !isTerminal() {
		session, err := app.Start(ctx, services.ModeEmbeddable)
		if err != nil {
			return err
		}
		return session.RunQuiet(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	_, err = app.Start(ctx, services.ModeInteractive)
	return err
}
