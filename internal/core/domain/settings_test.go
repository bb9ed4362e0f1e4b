package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() Settings {
	s := Settings{VaultPath: "/vault"}
	s.ApplyDefaults()
	return s
}

func TestSettings_ApplyDefaults(t *testing.T) {
	t.Run("fills all zero fields", func(t *testing.T) {
		s := Settings{VaultPath: "/vault"}
		s.ApplyDefaults()

		assert.Equal(t, DefaultNoteExtension, s.NoteExtension)
		assert.Equal(t, DefaultMinNoteLength, s.MinNoteLength)
		assert.Equal(t, DefaultQuietPeriod, s.QuietPeriod)
		assert.Equal(t, DefaultMaxRetries, s.MaxRetries)
		assert.Equal(t, DefaultRetryDelay, s.RetryDelay)
		assert.Equal(t, DefaultAnalysisTimeout, s.AnalysisTimeout)
		assert.Equal(t, DefaultMaxInputChars, s.MaxInputChars)
		assert.Equal(t, DefaultSystemPrompt, s.SystemPrompt)
		assert.Equal(t, DefaultReviewHeading, s.Section.Heading)
		assert.Equal(t, DefaultDailyFolder, s.Daily.Folder)
		assert.Equal(t, []string{"2006-01-02.md"}, s.Daily.FileFormats)
		assert.Equal(t, DefaultDailyTemplate, s.Daily.Template)
		assert.Equal(t, DefaultDailyPrompt, s.Daily.Prompt)
	})

	t.Run("preserves set values", func(t *testing.T) {
		s := Settings{
			VaultPath:     "/vault",
			NoteExtension: ".markdown",
			QuietPeriod:   time.Second,
			MaxRetries:    7,
		}
		s.ApplyDefaults()

		assert.Equal(t, ".markdown", s.NoteExtension)
		assert.Equal(t, time.Second, s.QuietPeriod)
		assert.Equal(t, 7, s.MaxRetries)
	})

	t.Run("daily filename layout follows the note extension", func(t *testing.T) {
		s := Settings{VaultPath: "/vault", NoteExtension: ".markdown"}
		s.ApplyDefaults()

		assert.Equal(t, []string{"2006-01-02.markdown"}, s.Daily.FileFormats)
	})
}

func TestSettings_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		s := validSettings()
		assert.NoError(t, s.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"missing vault path", func(s *Settings) { s.VaultPath = "" }},
		{"missing extension", func(s *Settings) { s.NoteExtension = "" }},
		{"zero quiet period", func(s *Settings) { s.QuietPeriod = 0 }},
		{"negative max retries", func(s *Settings) { s.MaxRetries = -1 }},
		{"negative retry delay", func(s *Settings) { s.RetryDelay = -time.Second }},
		{"zero analysis timeout", func(s *Settings) { s.AnalysisTimeout = 0 }},
		{"zero max input chars", func(s *Settings) { s.MaxInputChars = 0 }},
		{"non-heading section", func(s *Settings) { s.Section.Heading = "Review" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)

			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
