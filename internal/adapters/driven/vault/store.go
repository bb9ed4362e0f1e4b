// Package vault implements the VaultStore port over the local filesystem.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/memolab/vaultscribe/internal/core/domain"
	"github.com/memolab/vaultscribe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VaultStore = (*Store)(nil)

// Store reads and writes notes under a single vault root. It holds no
// in-memory representation of note content; the files on disk are the
// source of truth and may be written by other programs at any time.
type Store struct {
	root      string
	extension string
}

// NewStore creates a store rooted at root. The root must exist and be a
// directory; this is a startup-time configuration check.
func NewStore(root, extension string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault path %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: vault path %s is not a directory", domain.ErrInvalidInput, abs)
	}
	return &Store{root: abs, extension: extension}, nil
}

// Root returns the absolute vault root path.
func (s *Store) Root() string {
	return s.root
}

// Rel converts an absolute path inside the vault to a vault-relative path.
// Already-relative paths pass through unchanged.
func (s *Store) Rel(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), nil
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", fmt.Errorf("relativise %s: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the vault", domain.ErrInvalidInput, path)
	}
	return filepath.ToSlash(rel), nil
}

// abs converts a vault-relative path to an absolute one.
func (s *Store) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Exists reports whether a note exists.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(s.abs(path))
	return err == nil && !info.IsDir()
}

// ReadNote returns a note's full text.
func (s *Store) ReadNote(path string) (string, error) {
	data, err := os.ReadFile(s.abs(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteNoteAtomic replaces a note's content via write-then-rename. The
// temporary file lives in the target directory so the rename stays on one
// filesystem.
func (s *Store) WriteNoteAtomic(path, content string) error {
	target := s.abs(path)
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create folder for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".vaultscribe-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ListNotes returns the relative paths of all notes under folder.
func (s *Store) ListNotes(folder string, recursive bool) ([]string, error) {
	start := s.abs(folder)

	var notes []string
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != start && !recursive {
				return fs.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") && p != start {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), s.extension) {
			return nil
		}
		rel, relErr := s.Rel(p)
		if relErr != nil {
			return relErr
		}
		notes = append(notes, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list notes under %q: %w", folder, err)
	}
	return notes, nil
}

// EnsureFolder creates a folder (and parents) if missing.
func (s *Store) EnsureFolder(path string) error {
	if err := os.MkdirAll(s.abs(path), 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", path, err)
	}
	return nil
}
