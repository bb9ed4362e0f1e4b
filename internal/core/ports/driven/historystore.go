package driven

import (
	"context"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

// HistoryStore persists terminal processing results.
// Backed by SQLite; an in-memory implementation exists for tests and for
// running with history disabled.
type HistoryStore interface {
	// Record stores one terminal processing result.
	Record(ctx context.Context, result *domain.ProcessResult) error

	// Recent returns the most recent results, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ProcessResult, error)

	// RecentForPath returns the most recent results for one note, newest first.
	RecentForPath(ctx context.Context, path string, limit int) ([]domain.ProcessResult, error)

	// Prune deletes all but the newest keep results.
	Prune(ctx context.Context, keep int) error

	// Close releases resources.
	Close() error
}
