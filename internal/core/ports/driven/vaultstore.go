package driven

// VaultStore exposes the note vault as a hierarchical store of text files.
// All paths are relative to the vault root.
//
// The vault is external mutable state: a human editor may write the same
// files at any time. Callers therefore read immediately before a merge and
// write immediately after, and never cache note content between operations.
type VaultStore interface {
	// Root returns the absolute vault root path.
	Root() string

	// Rel converts an absolute path inside the vault to a vault-relative
	// path. Already-relative paths pass through unchanged.
	Rel(path string) (string, error)

	// Exists reports whether a note exists.
	Exists(path string) bool

	// ReadNote returns a note's full text.
	// Returns domain.ErrNotFound if the note does not exist.
	ReadNote(path string) (string, error)

	// WriteNoteAtomic replaces a note's content atomically
	// (write-then-rename), so a concurrent reader never observes a
	// half-written file. Parent folders are created as needed.
	WriteNoteAtomic(path, content string) error

	// ListNotes returns the relative paths of all notes with the given
	// extension under folder ("" means the vault root).
	ListNotes(folder string, recursive bool) ([]string, error)

	// EnsureFolder creates a folder (and parents) if missing.
	EnsureFolder(path string) error
}
