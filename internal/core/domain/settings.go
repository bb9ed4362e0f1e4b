package domain

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	DefaultNoteExtension   = ".md"
	DefaultQuietPeriod     = 5 * time.Second
	DefaultMaxRetries      = 3
	DefaultRetryDelay      = 2 * time.Second
	DefaultAnalysisTimeout = 90 * time.Second
	DefaultMaxInputChars   = 4000
	DefaultMinNoteLength   = 25
	DefaultReviewHeading   = "## AI Review"
	DefaultDailyFolder     = "Daily Notes"
	DefaultHistoryKeep     = 100
)

// DefaultSystemPrompt is used when the configuration does not provide one.
const DefaultSystemPrompt = "You are a thoughtful assistant. Analyse the note, " +
	"surface the key ideas, open questions and possible next actions. " +
	"Answer in concise Markdown."

// DefaultDailyPrompt is the fallback daily-review prompt template.
// The {content} placeholder is replaced with the note text.
const DefaultDailyPrompt = "Analyse this daily note. Summarise what happened, " +
	"highlight unfinished tasks and suggest priorities for tomorrow:\n\n{content}"

// DefaultDailyTemplate seeds a daily note that does not exist yet.
const DefaultDailyTemplate = "# Daily Note\n\n## Highlights\n\n## Tasks\n- [ ] \n"

// DailySettings configures the daily-review feature.
type DailySettings struct {
	// Folder is the vault-relative folder holding daily notes.
	Folder string

	// FileFormats are Go time layouts tried in order when locating the
	// daily note, e.g. "2006-01-02.md". The first layout is used when a
	// new note has to be created.
	FileFormats []string

	// Template is the initial content for a newly created daily note.
	Template string

	// Prompt is the analysis prompt template. The {content} placeholder
	// is replaced with the note text.
	Prompt string
}

// Settings is the immutable runtime configuration for the pipeline.
// It is loaded once at startup and shared read-only afterwards;
// invalid settings fail fast, before any event is processed.
type Settings struct {
	// VaultPath is the absolute path of the note vault root.
	VaultPath string

	// NoteExtension is the file extension of processable notes.
	NoteExtension string

	// ExcludedFolders are folder names skipped anywhere in a note's path.
	ExcludedFolders []string

	// MinNoteLength is the minimum content length worth analysing.
	MinNoteLength int

	// QuietPeriod is the debounce window after the last change event.
	QuietPeriod time.Duration

	// MaxRetries is the number of retries after a failed attempt.
	MaxRetries int

	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration

	// AnalysisTimeout bounds a single analysis call.
	AnalysisTimeout time.Duration

	// MaxInputChars truncates note content sent for analysis.
	MaxInputChars int

	// SystemPrompt is sent with every analysis request.
	SystemPrompt string

	// Section describes how analysis blocks are merged into notes.
	Section SectionSpec

	// Daily configures the daily-review feature.
	Daily DailySettings
}

// Validate checks the settings for startup. Configuration errors are fatal
// and are never surfaced per-note.
func (s *Settings) Validate() error {
	if s.VaultPath == "" {
		return fmt.Errorf("%w: vault path is required", ErrInvalidInput)
	}
	if s.NoteExtension == "" {
		return fmt.Errorf("%w: note extension is required", ErrInvalidInput)
	}
	if s.QuietPeriod <= 0 {
		return fmt.Errorf("%w: quiet period must be positive", ErrInvalidInput)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative", ErrInvalidInput)
	}
	if s.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay must not be negative", ErrInvalidInput)
	}
	if s.AnalysisTimeout <= 0 {
		return fmt.Errorf("%w: analysis timeout must be positive", ErrInvalidInput)
	}
	if s.MaxInputChars <= 0 {
		return fmt.Errorf("%w: max input chars must be positive", ErrInvalidInput)
	}
	return s.Section.Validate()
}

// ApplyDefaults fills zero-valued fields with defaults. Called by the
// configuration loader before Validate.
func (s *Settings) ApplyDefaults() {
	if s.NoteExtension == "" {
		s.NoteExtension = DefaultNoteExtension
	}
	if s.MinNoteLength == 0 {
		s.MinNoteLength = DefaultMinNoteLength
	}
	if s.QuietPeriod == 0 {
		s.QuietPeriod = DefaultQuietPeriod
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = DefaultMaxRetries
	}
	if s.RetryDelay == 0 {
		s.RetryDelay = DefaultRetryDelay
	}
	if s.AnalysisTimeout == 0 {
		s.AnalysisTimeout = DefaultAnalysisTimeout
	}
	if s.MaxInputChars == 0 {
		s.MaxInputChars = DefaultMaxInputChars
	}
	if s.SystemPrompt == "" {
		s.SystemPrompt = DefaultSystemPrompt
	}
	if s.Section.Heading == "" {
		s.Section.Heading = DefaultReviewHeading
	}
	if s.Daily.Folder == "" {
		s.Daily.Folder = DefaultDailyFolder
	}
	if len(s.Daily.FileFormats) == 0 {
		s.Daily.FileFormats = []string{"2006-01-02" + s.NoteExtension}
	}
	if s.Daily.Template == "" {
		s.Daily.Template = DefaultDailyTemplate
	}
	if s.Daily.Prompt == "" {
		s.Daily.Prompt = DefaultDailyPrompt
	}
}
