package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process <note-path>",
	Short: "Analyse one note immediately",
	Long: `Runs the full read-analyse-merge-write cycle for a single note,
bypassing the file watcher. The path is relative to the vault root.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	if err := pipeline.ProcessNow(context.Background(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Processed: %s\n", args[0])
	return nil
}
