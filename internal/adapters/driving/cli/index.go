package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or load the semantic index",
	Long: `Reads the documents folder, rewrites the corpus snapshot and loads the
persisted index, building it when it is missing or unreadable.

The index is not refreshed when documents change. Use --rebuild to replace it.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "rebuild the index even if it loads")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, err := app.Refresh(cmd.Context(), indexRebuild)
	if err != nil {
		return err
	}

	action := "loaded"
	if summary.Rebuilt {
		action = "rebuilt"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Documents: %d loaded, %d skipped, %d failed\n",
		summary.Report.Count(domain.OutcomeOK),
		summary.Report.Count(domain.OutcomeSkipped),
		summary.Report.Count(domain.OutcomeFailed))
	fmt.Fprintf(out, "Corpus:    %s (%d bytes)\n", summary.CorpusPath, summary.CorpusSize)
	fmt.Fprintf(out, "Index:     %s (%d entries, %s)\n", summary.IndexPath, summary.Entries, action)
	return nil
}
