package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

// Config is the full runtime configuration: the core pipeline settings
// plus the adapter-level sections (analysis endpoint, history store).
type Config struct {
	Settings domain.Settings
	Analysis AnalysisConfig
	History  HistoryConfig
}

// AnalysisConfig configures the analysis endpoint adapter.
type AnalysisConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	Temperature       float64
	MaxTokens         int
	RequestsPerSecond float64
}

// HistoryConfig configures processing-history persistence.
type HistoryConfig struct {
	Enabled bool
	DataDir string
	Keep    int
}

// fileConfig mirrors the TOML layout. Durations are plain seconds in the
// file; they are converted to time.Duration when mapping to Settings.
type fileConfig struct {
	Vault struct {
		Path            string   `toml:"path"`
		Extension       string   `toml:"extension"`
		ExcludedFolders []string `toml:"excluded_folders"`
		MinNoteLength   int      `toml:"min_note_length"`
	} `toml:"vault"`

	Watch struct {
		QuietPeriodSeconds float64 `toml:"quiet_period_seconds"`
		MaxRetries         int     `toml:"max_retries"`
		RetryDelaySeconds  float64 `toml:"retry_delay_seconds"`
	} `toml:"watch"`

	Analysis struct {
		BaseURL           string  `toml:"base_url"`
		APIKey            string  `toml:"api_key"`
		Model             string  `toml:"model"`
		TimeoutSeconds    float64 `toml:"timeout_seconds"`
		MaxInputChars     int     `toml:"max_input_chars"`
		Temperature       float64 `toml:"temperature"`
		MaxTokens         int     `toml:"max_tokens"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		SystemPrompt      string  `toml:"system_prompt"`
	} `toml:"analysis"`

	Review struct {
		Heading   string `toml:"heading"`
		Marker    string `toml:"marker"`
		Overwrite bool   `toml:"overwrite"`
	} `toml:"review"`

	Daily struct {
		Folder      string   `toml:"folder"`
		FileFormats []string `toml:"file_formats"`
		Template    string   `toml:"template"`
		Prompt      string   `toml:"prompt"`
	} `toml:"daily"`

	History struct {
		Enabled *bool  `toml:"enabled"`
		DataDir string `toml:"data_dir"`
		Keep    int    `toml:"keep"`
	} `toml:"history"`
}

// DefaultPath returns the default configuration file location,
// ~/.vaultscribe/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".vaultscribe", "config.toml"), nil
}

// Load reads, defaults and validates configuration from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := fromFileConfig(&fc)
	cfg.Settings.ApplyDefaults()
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// fromFileConfig maps the TOML layout onto the runtime configuration.
func fromFileConfig(fc *fileConfig) *Config {
	cfg := &Config{
		Settings: domain.Settings{
			VaultPath:       fc.Vault.Path,
			NoteExtension:   fc.Vault.Extension,
			ExcludedFolders: fc.Vault.ExcludedFolders,
			MinNoteLength:   fc.Vault.MinNoteLength,
			QuietPeriod:     secondsToDuration(fc.Watch.QuietPeriodSeconds),
			MaxRetries:      fc.Watch.MaxRetries,
			RetryDelay:      secondsToDuration(fc.Watch.RetryDelaySeconds),
			AnalysisTimeout: secondsToDuration(fc.Analysis.TimeoutSeconds),
			MaxInputChars:   fc.Analysis.MaxInputChars,
			SystemPrompt:    fc.Analysis.SystemPrompt,
			Section: domain.SectionSpec{
				Heading:   fc.Review.Heading,
				Marker:    fc.Review.Marker,
				Overwrite: fc.Review.Overwrite,
			},
			Daily: domain.DailySettings{
				Folder:      fc.Daily.Folder,
				FileFormats: fc.Daily.FileFormats,
				Template:    fc.Daily.Template,
				Prompt:      fc.Daily.Prompt,
			},
		},
		Analysis: AnalysisConfig{
			BaseURL:           fc.Analysis.BaseURL,
			APIKey:            fc.Analysis.APIKey,
			Model:             fc.Analysis.Model,
			Temperature:       fc.Analysis.Temperature,
			MaxTokens:         fc.Analysis.MaxTokens,
			RequestsPerSecond: fc.Analysis.RequestsPerSecond,
		},
		History: HistoryConfig{
			Enabled: fc.History.Enabled == nil || *fc.History.Enabled,
			DataDir: fc.History.DataDir,
			Keep:    fc.History.Keep,
		},
	}
	if cfg.History.Keep == 0 {
		cfg.History.Keep = domain.DefaultHistoryKeep
	}
	return cfg
}

// secondsToDuration converts fractional seconds from the TOML file.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
