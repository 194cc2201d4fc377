package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/services"
)

var (
	askSources bool
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a single question",
	Long: `Answers one question and exits. The words of the question may be passed
as separate arguments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "list the retrieved sources")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askResult is the JSON shape of an answer.
type askResult struct {
	Question string      `json:"question"`
	Result   string      `json:"result"`
	Sources  []askSource `json:"sources,omitempty"`
}

type askSource struct {
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
	Text   string `json:"text"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	session, err := app.Start(cmd.Context(), services.ModeEmbeddable)
	if err != nil {
		return err
	}

	answer, err := session.Answer(cmd.Context(), question)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if askJSON {
		return writeAnswerJSON(out, answer)
	}

	fmt.Fprintln(out, answer.Text)
	if askSources {
		writeSources(out, answer.Sources)
	}
	return nil
}

func writeAnswerJSON(w io.Writer, answer domain.Answer) error {
	result := askResult{Question: answer.Question, Result: answer.Text}
	for _, b := range answer.Sources {
		result.Sources = append(result.Sources, askSource{Source: b.Source, Page: b.Page, Text: b.Text})
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeSources(w io.Writer, sources []domain.TextBlock) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sources (%d):\n", len(sources))
	for i, b := range sources {
		page := ""
		if b.Page > 0 {
			page = fmt.Sprintf(" p.%d", b.Page)
		}
		fmt.Fprintf(w, "  [%d] %s%s\n", i+1, b.Source, page)
	}
}
