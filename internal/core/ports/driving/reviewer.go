package driving

import (
	"context"
	"time"
)

// Reviewer provides on-demand note analysis operations.
type Reviewer interface {
	// DailyReview locates (or creates) the daily note for a date, analyses
	// it and merges the review into the note. Returns a human-readable
	// status message.
	DailyReview(ctx context.Context, date time.Time) (string, error)

	// Ask answers a question about a single note found by fuzzy name lookup.
	// Multiple matches return a *domain.AmbiguousMatchError.
	Ask(ctx context.Context, noteName, question string) (string, error)

	// Connections analyses the relationship between two notes named by
	// their vault-relative note names (without extension).
	Connections(ctx context.Context, first, second string) (string, error)
}
