package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

var historyLimit int
var historyPath string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent processing results",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of results to show")
	historyCmd.Flags().StringVar(&historyPath, "path", "", "only show results for this note")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := initApp(); err != nil {
		return err
	}

	ctx := context.Background()
	var results []domain.ProcessResult
	var err error
	if historyPath != "" {
		results, err = historyStore.RecentForPath(ctx, historyPath, historyLimit)
	} else {
		results, err = historyStore.Recent(ctx, historyLimit)
	}
	if err != nil {
		return err
	}

	if len(results) == 0 {
		cmd.Println("No processing history.")
		return nil
	}

	for _, r := range results {
		status := "ok"
		if !r.Success {
			status = "FAILED"
		}
		cmd.Printf("%s  %-6s  %s  attempts=%d changed=%t  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), status, r.Path,
			r.Attempts, r.Changed, r.Error)
	}
	return nil
}
