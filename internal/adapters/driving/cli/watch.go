package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/memolab/vaultscribe/internal/adapters/driving/watch"
	"github.com/memolab/vaultscribe/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and analyse changed notes",
	Long: `Watches the vault directory recursively. Each changed note is analysed
after a quiet period and the result is merged into the note under the
configured heading. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := initApp(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Best effort connectivity check; the endpoint may come up later.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := analysisService.Ping(pingCtx); err != nil {
		logger.Warn("analysis endpoint not reachable yet: %v", err)
	}
	cancel()

	if err := pipeline.Start(ctx); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}

	watcher := watch.New(vaultStore.Root(), pipeline.Notify)
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	cmd.Printf("Watching %s (model %s). Ctrl+C to exit.\n",
		vaultStore.Root(), analysisService.ModelName())

	<-ctx.Done()
	cmd.Println("\nShutting down...")

	if err := watcher.Stop(); err != nil {
		logger.Warn("watcher stop: %v", err)
	}
	return pipeline.Stop()
}
