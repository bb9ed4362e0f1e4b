package driving

import (
	"context"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

// NoteProcessor is the debounced processing pipeline for changed notes.
//
// Concurrency contract: notifications for the same path are coalesced per
// debounce window, and at most one processing run per path is in flight at
// any time. A notification arriving while its path is being processed is
// queued to re-trigger after the current run, never run concurrently and
// never dropped. Different paths process fully in parallel.
type NoteProcessor interface {
	// Start prepares the pipeline for notifications.
	Start(ctx context.Context) error

	// Notify reports one raw change event. Deletions and ineligible paths
	// are dropped silently. Safe for concurrent use; a no-op after Stop.
	Notify(event domain.ChangeEvent)

	// ProcessNow runs the full read-analyse-merge-write cycle for a path
	// synchronously, bypassing the debouncer but honouring the retry policy.
	ProcessNow(ctx context.Context, path string) error

	// Stop cancels pending debounce timers, stops accepting notifications
	// and waits for in-flight runs within a bounded grace period.
	Stop() error
}
