package domain

import (
	"fmt"
	"strings"
)

// SectionSpec describes how a generated analysis block is merged into a
// note. It is loaded once from configuration and shared read-only across
// all merge operations.
type SectionSpec struct {
	// Heading is the Markdown heading line that owns the analysis section,
	// e.g. "## AI Review". Required.
	Heading string

	// Marker is an optional literal sentinel line. When a note contains a
	// line whose trimmed content equals Marker exactly, the analysis section
	// replaces that line. Empty means no marker handling.
	Marker string

	// Overwrite controls whether an existing analysis section is replaced.
	// When false, a note that already has the section is left untouched.
	Overwrite bool
}

// Validate checks the spec at configuration-load time. The merge engine
// itself is total over its inputs and never validates.
func (s SectionSpec) Validate() error {
	if strings.TrimSpace(s.Heading) == "" {
		return fmt.Errorf("%w: section heading is required", ErrInvalidInput)
	}
	if !strings.HasPrefix(s.Heading, "#") {
		return fmt.Errorf("%w: section heading %q must be a Markdown heading", ErrInvalidInput, s.Heading)
	}
	// A padded heading would never equal the trimmed document line it
	// creates, so every merge would append the section again.
	if strings.TrimSpace(s.Heading) != s.Heading {
		return fmt.Errorf("%w: section heading must not have surrounding whitespace", ErrInvalidInput)
	}
	if s.Marker != "" && strings.TrimSpace(s.Marker) != s.Marker {
		return fmt.Errorf("%w: marker must not have surrounding whitespace", ErrInvalidInput)
	}
	return nil
}

// MergeResult is the outcome of merging an analysis block into a note.
//
// Invariant: when Changed is false, NewText is byte-identical to the input
// text. A merge is a true no-op or a real edit, never a cosmetic rewrite.
type MergeResult struct {
	// NewText is the full note text after the merge.
	NewText string

	// Changed reports whether NewText differs from the input.
	Changed bool
}
