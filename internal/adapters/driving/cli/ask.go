package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask <note-name> <question>",
	Short: "Ask a question about a note",
	Long: `Finds a note by flexible name matching (exact, substring or acronym)
and answers a question about its content. When several notes match, the
candidates are listed instead of guessing.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	answer, err := reviewer.Ask(context.Background(), args[0], args[1])
	if err != nil {
		var ambiguous *domain.AmbiguousMatchError
		if errors.As(err, &ambiguous) {
			cmd.Printf("Found %d matches for %q:\n", len(ambiguous.Matches), ambiguous.Query)
			for _, m := range ambiguous.Matches {
				cmd.Printf("  %s\n", m)
			}
			cmd.Println("Re-run with a more specific name.")
			return nil
		}
		return err
	}

	cmd.Println(answer)
	return nil
}
