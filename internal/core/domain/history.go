package domain

import "time"

// ProcessResult records the terminal outcome of one processing run for a
// note: either a success, or the last error after retries were exhausted.
// Intermediate attempts are not persisted.
type ProcessResult struct {
	// ID uniquely identifies the run.
	ID string

	// Path is the vault-relative path of the processed note.
	Path string

	// Attempts is the total number of attempts made, including the first.
	Attempts int

	// Success reports whether the run completed without error.
	Success bool

	// Error holds the final error message when Success is false.
	Error string

	// Changed reports whether the note was actually rewritten.
	Changed bool

	// StartedAt is when the first attempt began.
	StartedAt time.Time

	// EndedAt is when the run reached a terminal state.
	EndedAt time.Time
}

// Duration returns the total wall-clock time of the run.
func (r *ProcessResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
