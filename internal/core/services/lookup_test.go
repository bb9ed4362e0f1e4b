package services

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

func TestNoteLookup_Find(t *testing.T) {
	vault := newMockVault(map[string]string{
		"Weekly Planning Meeting.md": "a",
		"projects/budget-review.md":  "b",
		"projects/roadmap.md":        "c",
		"Templates/meeting-note.md":  "d",
		"inbox/quick_idea.md":        "e",
		"inbox/another quick one.md": "f",
		"archive/old-plans-2023.md":  "g",
	})
	lookup := NewNoteLookup(vault, ".md", []string{"Templates"})

	t.Run("exact name", func(t *testing.T) {
		path, err := lookup.Find("roadmap")
		require.NoError(t, err)
		assert.Equal(t, "projects/roadmap.md", path)
	})

	t.Run("case and separators are ignored", func(t *testing.T) {
		path, err := lookup.Find("Budget Review")
		require.NoError(t, err)
		assert.Equal(t, "projects/budget-review.md", path)
	})

	t.Run("substring match", func(t *testing.T) {
		path, err := lookup.Find("quick_idea")
		require.NoError(t, err)
		assert.Equal(t, "inbox/quick_idea.md", path)
	})

	t.Run("acronym of a multi-word query", func(t *testing.T) {
		path, err := lookup.Find("Weekly Planning Meeting")
		require.NoError(t, err)
		assert.Equal(t, "Weekly Planning Meeting.md", path)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := lookup.Find("nonexistent")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ambiguity is a typed error listing candidates", func(t *testing.T) {
		_, err := lookup.Find("quick")

		var ambiguous *domain.AmbiguousMatchError
		require.True(t, errors.As(err, &ambiguous))
		assert.Equal(t, "quick", ambiguous.Query)
		assert.ElementsMatch(t,
			[]string{"inbox/quick_idea.md", "inbox/another quick one.md"},
			ambiguous.Matches)
	})

	t.Run("excluded folders are never matched", func(t *testing.T) {
		_, err := lookup.Find("meeting-note")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("single-word query does not acronym-match", func(t *testing.T) {
		// "r" would otherwise be an acronym hitting every note with an r.
		_, err := lookup.Find("r")
		var ambiguous *domain.AmbiguousMatchError
		if err != nil && errors.As(err, &ambiguous) {
			for _, m := range ambiguous.Matches {
				assert.Contains(t, normaliseName(m), "r")
			}
		}
	})
}

func TestNormaliseName(t *testing.T) {
	assert.Equal(t, "weeklyplanning", normaliseName("Weekly-Planning"))
	assert.Equal(t, "quickidea", normaliseName("quick_idea"))
	assert.Equal(t, "abc", normaliseName("A b-C"))
}

func TestAcronymOf(t *testing.T) {
	assert.Equal(t, "wpm", acronymOf("Weekly Planning Meeting"))
	assert.Equal(t, "", acronymOf("single"))
	assert.Equal(t, "", acronymOf(""))

	// Words starting with a multibyte rune take the whole rune, not its
	// first byte.
	assert.Equal(t, "ön", acronymOf("Ökonomie Notizen"))
	assert.True(t, utf8.ValidString(acronymOf("Überblick Änderungen Ökonomie")))
}
