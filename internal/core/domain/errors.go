package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested note or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrShuttingDown indicates the pipeline no longer accepts work.
	ErrShuttingDown = errors.New("shutting down")

	// ErrNoteTooShort indicates a note is below the minimum processing length.
	ErrNoteTooShort = errors.New("note too short")

	// Analysis Errors.
	// The analysis service is an external LLM endpoint; its failures are
	// transient and retryable, never fatal to the pipeline.

	// ErrAnalysisTimeout indicates the analysis call exceeded its deadline.
	ErrAnalysisTimeout = errors.New("analysis timed out")

	// ErrAnalysisNetwork indicates the analysis endpoint could not be reached.
	ErrAnalysisNetwork = errors.New("analysis endpoint unreachable")

	// ErrMalformedResponse indicates the analysis endpoint returned a
	// response that could not be decoded.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// AmbiguousMatchError is returned when a note lookup matches more than one
// note. The caller decides how to present the candidates; the lookup never
// guesses a best match.
type AmbiguousMatchError struct {
	// Query is the search term that produced multiple matches.
	Query string

	// Matches are the vault-relative paths of all candidates.
	Matches []string
}

// Error implements the error interface.
func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("query %q matches %d notes: %s",
		e.Query, len(e.Matches), strings.Join(e.Matches, ", "))
}
