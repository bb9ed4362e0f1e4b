package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/memolab/vaultscribe/internal/core/domain"
	"github.com/memolab/vaultscribe/internal/core/ports/driven"
	"github.com/memolab/vaultscribe/internal/core/ports/driving"
	"github.com/memolab/vaultscribe/internal/logger"
)

// Ensure Reviewer implements the interface.
var _ driving.Reviewer = (*Reviewer)(nil)

// Reviewer provides the on-demand analysis operations: daily-note review,
// question answering about a note and note-to-note connection analysis.
type Reviewer struct {
	settings domain.Settings
	vault    driven.VaultStore
	analysis driven.AnalysisService
	merger   *SectionMerger
	lookup   *NoteLookup
}

// NewReviewer creates a reviewer.
func NewReviewer(settings domain.Settings, vault driven.VaultStore, analysis driven.AnalysisService) *Reviewer {
	return &Reviewer{
		settings: settings,
		vault:    vault,
		analysis: analysis,
		merger:   NewSectionMerger(settings.Section),
		lookup:   NewNoteLookup(vault, settings.NoteExtension, settings.ExcludedFolders),
	}
}

// DailyReview locates or creates the daily note for date, analyses it and
// merges the review into the note under the configured heading.
func (r *Reviewer) DailyReview(ctx context.Context, date time.Time) (string, error) {
	notePath, err := r.findOrCreateDailyNote(date)
	if err != nil {
		return "", err
	}

	content, err := r.vault.ReadNote(notePath)
	if err != nil {
		return "", fmt.Errorf("read daily note: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		// Give the model something to chew on rather than an empty prompt.
		content = "# Empty Note\n"
		logger.Warn("review: daily note %s is empty", notePath)
	}

	prompt := strings.ReplaceAll(r.settings.Daily.Prompt, "{content}", content)

	analysisCtx, cancel := context.WithTimeout(ctx, r.settings.AnalysisTimeout)
	defer cancel()
	analysed, err := r.analysis.Analyse(analysisCtx, r.settings.SystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("analyse daily note: %w", err)
	}

	// Re-read before merging; the note may have changed during analysis.
	latest, err := r.vault.ReadNote(notePath)
	if err != nil {
		return "", fmt.Errorf("re-read daily note: %w", err)
	}

	merged := r.merger.Merge(latest, analysed)
	if !merged.Changed {
		return fmt.Sprintf("Review already exists (overwrite disabled): %s", notePath), nil
	}
	if err := r.vault.WriteNoteAtomic(notePath, merged.NewText); err != nil {
		return "", fmt.Errorf("write daily note: %w", err)
	}
	return fmt.Sprintf("Updated daily review: %s", notePath), nil
}

// findOrCreateDailyNote tries each configured filename layout for the date
// and creates a note from the template when none exists.
func (r *Reviewer) findOrCreateDailyNote(date time.Time) (string, error) {
	folder := r.settings.Daily.Folder

	for _, layout := range r.settings.Daily.FileFormats {
		candidate := path.Join(folder, date.Format(layout))
		if r.vault.Exists(candidate) {
			logger.Debug("review: found daily note %s", candidate)
			return candidate, nil
		}
	}

	if err := r.vault.EnsureFolder(folder); err != nil {
		return "", fmt.Errorf("create daily folder: %w", err)
	}
	notePath := path.Join(folder, date.Format(r.settings.Daily.FileFormats[0]))
	if err := r.vault.WriteNoteAtomic(notePath, r.settings.Daily.Template); err != nil {
		return "", fmt.Errorf("create daily note: %w", err)
	}
	logger.Info("review: created daily note %s", notePath)
	return notePath, nil
}

// Ask answers a question about a single note found by fuzzy name lookup.
func (r *Reviewer) Ask(ctx context.Context, noteName, question string) (string, error) {
	notePath, err := r.lookup.Find(noteName)
	if err != nil {
		return "", err
	}

	content, err := r.vault.ReadNote(notePath)
	if err != nil {
		return "", fmt.Errorf("read note: %w", err)
	}

	prompt := fmt.Sprintf(
		"Analyse this note and answer the question.\n\nNote: %s\nQuestion: %s\n\nContent:\n%s",
		path.Base(notePath), question, content)

	analysisCtx, cancel := context.WithTimeout(ctx, r.settings.AnalysisTimeout)
	defer cancel()
	return r.analysis.Analyse(analysisCtx, r.settings.SystemPrompt, prompt)
}

// Connections analyses the relationship between two notes named directly
// (vault-relative note names without extension).
func (r *Reviewer) Connections(ctx context.Context, first, second string) (string, error) {
	firstPath := first + r.settings.NoteExtension
	secondPath := second + r.settings.NoteExtension

	firstContent, err := r.vault.ReadNote(firstPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", firstPath, err)
	}
	secondContent, err := r.vault.ReadNote(secondPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", secondPath, err)
	}

	prompt := fmt.Sprintf(
		"Analyse connections between these notes.\n\nNote 1 (%s):\n%s\n\nNote 2 (%s):\n%s\n\n"+
			"1. List conceptual overlaps\n2. Identify contradictions\n3. Suggest synthesis points",
		first, firstContent, second, secondContent)

	analysisCtx, cancel := context.WithTimeout(ctx, r.settings.AnalysisTimeout)
	defer cancel()
	return r.analysis.Analyse(analysisCtx, r.settings.SystemPrompt, prompt)
}
