package services

import (
	"path/filepath"
	"strings"
)

// PathFilter decides whether a changed path is eligible for processing.
// It is stateless; the existence probe is injected so the filter stays a
// pure function over its dependencies.
type PathFilter struct {
	extension string
	excluded  []string
	exists    func(path string) bool
}

// NewPathFilter creates a filter for the given note extension and excluded
// folder names. exists probes whether a vault-relative path currently
// exists; it may be nil to skip the existence rule.
func NewPathFilter(extension string, excluded []string, exists func(path string) bool) *PathFilter {
	return &PathFilter{
		extension: extension,
		excluded:  excluded,
		exists:    exists,
	}
}

// Eligible applies the rules in order: extension match, no excluded path
// segment, file currently exists. Absence of a match is not an error; a
// race against deletion is tolerated and re-checked downstream.
func (f *PathFilter) Eligible(path string) bool {
	if !strings.HasSuffix(path, f.extension) {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		for _, folder := range f.excluded {
			if segment == folder {
				return false
			}
		}
	}
	if f.exists != nil && !f.exists(path) {
		return false
	}
	return true
}
