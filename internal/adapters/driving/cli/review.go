package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review [YYYY-MM-DD]",
	Short: "Run the daily-note review",
	Long: `Locates the daily note for the given date (today when omitted),
creates it from the template if missing, analyses it and merges the review
into the note.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	date := time.Now()
	if len(args) > 0 {
		parsed, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", args[0], err)
		}
		date = parsed
	}

	msg, err := reviewer.DailyReview(context.Background(), date)
	if err != nil {
		return err
	}
	cmd.Println(msg)
	return nil
}
