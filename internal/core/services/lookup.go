package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/memolab/vaultscribe/internal/core/domain"
	"github.com/memolab/vaultscribe/internal/core/ports/driven"
)

// NoteLookup finds notes by flexible name matching across the whole vault.
// Matching is intentionally forgiving: exact name, substring and acronym
// forms all count, after normalising case, spaces, dashes and underscores.
//
// Lookup never guesses between multiple candidates; ambiguity is returned
// as a typed error enumerating them.
type NoteLookup struct {
	vault     driven.VaultStore
	extension string
	excluded  []string
}

// NewNoteLookup creates a lookup over the vault.
func NewNoteLookup(vault driven.VaultStore, extension string, excluded []string) *NoteLookup {
	return &NoteLookup{
		vault:     vault,
		extension: extension,
		excluded:  excluded,
	}
}

// Find returns the vault-relative path of the single note matching query.
// Returns domain.ErrNotFound when nothing matches and a
// *domain.AmbiguousMatchError when more than one note matches.
func (l *NoteLookup) Find(query string) (string, error) {
	notes, err := l.vault.ListNotes("", true)
	if err != nil {
		return "", fmt.Errorf("list notes: %w", err)
	}

	normalised := normaliseName(query)
	acronym := acronymOf(query)

	var matches []string
	for _, path := range notes {
		if l.isExcluded(path) {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), l.extension)
		candidate := normaliseName(name)

		if candidate == normalised ||
			strings.Contains(candidate, normalised) ||
			(acronym != "" && strings.Contains(candidate, acronym)) {
			matches = append(matches, path)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no note matches %q", domain.ErrNotFound, query)
	case 1:
		return matches[0], nil
	default:
		return "", &domain.AmbiguousMatchError{Query: query, Matches: matches}
	}
}

// isExcluded reports whether any folder segment of path is excluded.
func (l *NoteLookup) isExcluded(path string) bool {
	dir := filepath.Dir(filepath.ToSlash(path))
	if dir == "." {
		return false
	}
	for _, segment := range strings.Split(dir, "/") {
		for _, folder := range l.excluded {
			if segment == folder {
				return true
			}
		}
	}
	return false
}

// normaliseName lowercases a name and strips spaces, dashes and underscores.
func normaliseName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}

// acronymOf builds the lowercase initial-letters form of a multi-word
// query, e.g. "Weekly Planning Meeting" -> "wpm". Single words return ""
// so that one-letter acronyms do not match everything.
func acronymOf(query string) string {
	words := strings.Fields(query)
	if len(words) < 2 {
		return ""
	}
	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
