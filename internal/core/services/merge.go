package services

import (
	"strings"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

// SectionMerger deterministically combines a note's current text with a
// freshly generated analysis block. It is pure and total over its inputs:
// malformed specs are rejected at configuration-load time, never here.
//
// The layered policy, first match wins:
//
//  1. Marker-replace: a line whose trimmed content equals the configured
//     marker is replaced by the section. All matching lines are replaced.
//     A marker embedded inside other text does not count.
//  2. Heading-overwrite: when overwriting is enabled and the heading line
//     exists, the heading's whole section is replaced.
//  3. Heading-append-once: when the heading does not exist, the section is
//     appended to the end of the note.
//  4. No-op: heading exists, overwriting disabled, no marker matched. The
//     note is returned unchanged, which makes reprocessing an
//     already-annotated note idempotent.
type SectionMerger struct {
	spec domain.SectionSpec
}

// NewSectionMerger creates a merger for the given spec.
func NewSectionMerger(spec domain.SectionSpec) *SectionMerger {
	return &SectionMerger{spec: spec}
}

// Merge computes the new note text for a generated analysis block.
func (m *SectionMerger) Merge(current, generated string) domain.MergeResult {
	section := m.spec.Heading + "\n" + strings.TrimSpace(generated)

	if m.spec.Marker != "" {
		if out, replaced := replaceMarkerLines(current, m.spec.Marker, section); replaced {
			return domain.MergeResult{NewText: out, Changed: out != current}
		}
	}

	start, end, found := FindSectionBounds(current, m.spec.Heading)
	switch {
	case found && m.spec.Overwrite:
		out := overwriteSection(current, start, end, section)
		return domain.MergeResult{NewText: out, Changed: out != current}
	case !found:
		out := appendSection(current, section)
		return domain.MergeResult{NewText: out, Changed: out != current}
	default:
		// Section already present and overwriting is disabled.
		return domain.MergeResult{NewText: current, Changed: false}
	}
}

// replaceMarkerLines replaces every line whose trimmed content equals the
// marker with the section. Only whole-line matches count: a marker embedded
// in surrounding prose must not trigger a replacement. Untouched lines are
// preserved byte for byte.
func replaceMarkerLines(text, marker, section string) (string, bool) {
	lines := strings.Split(text, "\n")
	replaced := false
	for i, line := range lines {
		if strings.TrimSpace(line) == marker {
			lines[i] = section
			replaced = true
		}
	}
	if !replaced {
		return text, false
	}
	return strings.Join(lines, "\n"), true
}

// FindSectionBounds locates the section owned by heading: the heading line
// itself plus everything up to (excluding) the next heading of equal or
// higher priority, where priority is the count of leading '#' characters
// (fewer means higher). Heading detection is literal equality of the
// trimmed line, not a fuzzy match. Returns byte offsets [start, end) into
// text, with end extending to the end of the document when no boundary
// heading follows.
func FindSectionBounds(text, heading string) (start, end int, found bool) {
	level := headingLevel(heading)
	offset := 0
	start = -1

	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if start < 0 {
			if trimmed == heading {
				start = offset
			}
			offset += len(line)
			continue
		}
		if lv := headingLevel(trimmed); lv > 0 && lv <= level {
			return start, offset, true
		}
		offset += len(line)
	}

	if start < 0 {
		return 0, 0, false
	}
	return start, len(text), true
}

// headingLevel returns the Markdown heading level of a line (1-6), or 0 if
// the line is not a heading. The '#' run must be followed by a space or end
// the line.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	if n < len(line) && line[n] != ' ' {
		return 0
	}
	return n
}

// overwriteSection replaces text[start:end] with the section, normalising
// the surrounding whitespace to exactly one blank line on each side and a
// single trailing newline.
func overwriteSection(text string, start, end int, section string) string {
	pre := strings.TrimRight(text[:start], " \t\r\n")
	post := strings.TrimLeft(text[end:], " \t\r\n")

	merged := pre + "\n\n" + section + "\n\n" + post
	return strings.TrimSpace(merged) + "\n"
}

// appendSection adds the section to the end of the note, separated from
// existing content by exactly one blank line and ending with a single
// trailing newline.
func appendSection(text, section string) string {
	trimmed := strings.TrimRight(text, " \t\r\n")
	if trimmed == "" {
		return section + "\n"
	}
	return trimmed + "\n\n" + section + "\n"
}
