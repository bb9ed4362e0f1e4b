// Package cli implements the cobra command-line interface for vaultscribe.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	configfile "github.com/memolab/vaultscribe/internal/adapters/driven/config/file"
	"github.com/memolab/vaultscribe/internal/adapters/driven/llm/openai"
	"github.com/memolab/vaultscribe/internal/adapters/driven/storage/memory"
	"github.com/memolab/vaultscribe/internal/adapters/driven/storage/sqlite"
	"github.com/memolab/vaultscribe/internal/adapters/driven/vault"
	"github.com/memolab/vaultscribe/internal/core/ports/driven"
	"github.com/memolab/vaultscribe/internal/core/services"
	"github.com/memolab/vaultscribe/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagConfig  string
	flagVerbose bool
)

// Wired application services, built once by initApp.
var (
	appConfig       *configfile.Config
	vaultStore      *vault.Store
	analysisService driven.AnalysisService
	historyStore    driven.HistoryStore
	pipeline        *services.Pipeline
	reviewer        *services.Reviewer
)

var rootCmd = &cobra.Command{
	Use:   "vaultscribe",
	Short: "LLM analysis companion for a Markdown note vault",
	Long: `vaultscribe watches a vault of Markdown notes and merges LLM-generated
analysis into each changed note under a configured heading. It also offers
on-demand daily reviews, note questions and note-to-note comparisons.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.toml (default ~/.vaultscribe/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the CLI. Called by main.
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

// initApp loads configuration and wires the services. Commands that need
// the application call this at the top of their RunE.
func initApp() error {
	if appConfig != nil {
		return nil
	}

	path := flagConfig
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := configfile.Load(path)
	if err != nil {
		return err
	}
	appConfig = cfg

	vaultStore, err = vault.NewStore(cfg.Settings.VaultPath, cfg.Settings.NoteExtension)
	if err != nil {
		return err
	}

	analysisService, err = openai.New(openai.Config{
		BaseURL:           cfg.Analysis.BaseURL,
		APIKey:            cfg.Analysis.APIKey,
		Model:             cfg.Analysis.Model,
		Timeout:           cfg.Settings.AnalysisTimeout,
		Temperature:       cfg.Analysis.Temperature,
		MaxTokens:         cfg.Analysis.MaxTokens,
		MaxInputChars:     cfg.Settings.MaxInputChars,
		RequestsPerSecond: cfg.Analysis.RequestsPerSecond,
	})
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		historyStore, err = sqlite.NewHistoryStore(cfg.History.DataDir)
		if err != nil {
			return err
		}
		if err := historyStore.Prune(context.Background(), cfg.History.Keep); err != nil {
			logger.Warn("history prune: %v", err)
		}
	} else {
		historyStore = memory.NewHistoryStore()
	}

	pipeline = services.NewPipeline(cfg.Settings, vaultStore, analysisService, historyStore)
	reviewer = services.NewReviewer(cfg.Settings, vaultStore, analysisService)

	logger.Info("loaded model: %s", analysisService.ModelName())
	return nil
}

// teardown releases adapter resources after command execution.
func teardown() {
	if analysisService != nil {
		analysisService.Close()
	}
	if historyStore != nil {
		historyStore.Close()
	}
}
