package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var connectionsCmd = &cobra.Command{
	Use:   "connections <first-note> <second-note>",
	Short: "Analyse connections between two notes",
	Long: `Reads two notes (vault-relative names, without extension) and asks the
analysis model for conceptual overlaps, contradictions and synthesis points.`,
	Args: cobra.ExactArgs(2),
	RunE: runConnections,
}

func init() {
	rootCmd.AddCommand(connectionsCmd)
}

func runConnections(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	analysis, err := reviewer.Connections(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}
	cmd.Println(analysis)
	return nil
}
