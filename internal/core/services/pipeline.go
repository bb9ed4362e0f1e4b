package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/memolab/vaultscribe/internal/core/domain"
	"github.com/memolab/vaultscribe/internal/core/ports/driven"
	"github.com/memolab/vaultscribe/internal/core/ports/driving"
	"github.com/memolab/vaultscribe/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.NoteProcessor = (*Pipeline)(nil)

// stopGracePeriod bounds how long Stop waits for in-flight runs.
const stopGracePeriod = 30 * time.Second

// pathState tracks one path's processing window. running means a worker
// owns the path; pending means a trigger arrived mid-run and the worker
// must go around again before releasing the path.
type pathState struct {
	running bool
	pending bool
}

// Pipeline wires the change source to the vault: filter, debounce, then a
// retried read-analyse-merge-write cycle per trigger. The debounce-timer
// table and the path-state table are the only shared mutable structures;
// everything else is either immutable settings or external state (the note
// files, which a human editor may also write at any time).
type Pipeline struct {
	settings domain.Settings
	vault    driven.VaultStore
	analysis driven.AnalysisService
	history  driven.HistoryStore

	filter    *PathFilter
	debouncer *Debouncer
	retrier   *Retrier
	merger    *SectionMerger

	mu      sync.Mutex
	states  map[string]*pathState
	stopped bool
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPipeline creates a pipeline. history may be nil when result recording
// is disabled.
func NewPipeline(
	settings domain.Settings,
	vault driven.VaultStore,
	analysis driven.AnalysisService,
	history driven.HistoryStore,
) *Pipeline {
	p := &Pipeline{
		settings: settings,
		vault:    vault,
		analysis: analysis,
		history:  history,
		filter:   NewPathFilter(settings.NoteExtension, settings.ExcludedFolders, vault.Exists),
		retrier:  NewRetrier(settings.MaxRetries, settings.RetryDelay),
		merger:   NewSectionMerger(settings.Section),
		states:   make(map[string]*pathState),
	}
	p.debouncer = NewDebouncer(settings.QuietPeriod, p.onReady)
	return p
}

// Start prepares the pipeline. The given context is the parent for all
// processing work; cancelling it abandons in-flight runs.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return domain.ErrShuttingDown
	}
	if p.ctx == nil {
		p.ctx, p.cancel = context.WithCancel(ctx)
	}
	return nil
}

// Notify reports one raw change event. Deletions and filter-rejected
// paths are skipped silently; that is not an error.
func (p *Pipeline) Notify(event domain.ChangeEvent) {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped {
		return
	}

	if event.Kind == domain.ChangeDeleted {
		logger.Debug("pipeline: ignoring deletion of %s", event.Path)
		return
	}

	rel, err := p.vault.Rel(event.Path)
	if err != nil {
		logger.Debug("pipeline: ignoring path outside vault: %s", event.Path)
		return
	}
	if !p.filter.Eligible(rel) {
		logger.Debug("pipeline: filtered out %s", rel)
		return
	}

	logger.Info("pipeline: change detected: %s", rel)
	p.debouncer.OnEvent(rel)
}

// onReady runs when a path's debounce window closes. Serialisation per
// path: when the path is already being processed the trigger is recorded
// as pending instead of spawning a second concurrent run.
func (p *Pipeline) onReady(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	st, ok := p.states[path]
	if !ok {
		st = &pathState{}
		p.states[path] = st
	}
	if st.running {
		st.pending = true
		logger.Debug("pipeline: %s busy, queueing re-run", path)
		return
	}
	st.running = true

	p.wg.Add(1)
	go p.worker(path)
}

// worker owns one path until no pending trigger remains.
func (p *Pipeline) worker(path string) {
	defer p.wg.Done()

	for {
		p.runOnce(p.processingContext(), path)

		p.mu.Lock()
		st := p.states[path]
		if st != nil && st.pending {
			st.pending = false
			p.mu.Unlock()
			continue
		}
		delete(p.states, path)
		p.mu.Unlock()
		return
	}
}

// processingContext returns the lifecycle context, falling back to
// Background when Start was never called (direct ProcessNow use).
func (p *Pipeline) processingContext() context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// ProcessNow runs one full cycle synchronously, bypassing the debouncer.
// Unlike the watch path, which skips short notes silently, a manual run on
// a too-short note reports domain.ErrNoteTooShort so the caller learns why
// nothing happened.
func (p *Pipeline) ProcessNow(ctx context.Context, path string) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return domain.ErrShuttingDown
	}
	p.mu.Unlock()

	rel, err := p.vault.Rel(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if !p.filter.Eligible(rel) {
		return fmt.Errorf("%w: %s is not an eligible note", domain.ErrInvalidInput, rel)
	}
	if content, err := p.vault.ReadNote(rel); err == nil && len(content) < p.settings.MinNoteLength {
		return fmt.Errorf("%w: %s has %d characters, minimum is %d",
			domain.ErrNoteTooShort, rel, len(content), p.settings.MinNoteLength)
	}
	return p.runOnce(ctx, rel)
}

// runOnce executes the retried processing cycle for one path and records
// the terminal result. Per-path failures are isolated here: they are
// logged and recorded, never propagated into shared state.
func (p *Pipeline) runOnce(ctx context.Context, path string) error {
	result := &domain.ProcessResult{
		ID:        uuid.New().String(),
		Path:      path,
		StartedAt: time.Now(),
	}

	changed := false
	attempts, err := p.retrier.Run(ctx, path, func(ctx context.Context) error {
		var attemptErr error
		changed, attemptErr = p.processAttempt(ctx, path)
		return attemptErr
	})

	result.Attempts = attempts
	result.Changed = changed
	result.EndedAt = time.Now()
	if err != nil {
		result.Error = err.Error()
		logger.Error("pipeline: %s failed after %d attempts: %v", path, attempts, err)
	} else {
		result.Success = true
		logger.Info("pipeline: processed %s (changed=%t)", path, changed)
	}

	p.record(ctx, result)
	return err
}

// processAttempt is a single read-analyse-merge-write cycle. It returns
// whether the note was rewritten.
func (p *Pipeline) processAttempt(ctx context.Context, path string) (bool, error) {
	// The note may have been deleted between the event and the trigger.
	// That is not a failure; the edit we were asked about no longer exists.
	if !p.vault.Exists(path) {
		logger.Debug("pipeline: %s vanished before processing", path)
		return false, nil
	}

	content, err := p.vault.ReadNote(path)
	if err != nil {
		return false, fmt.Errorf("read note: %w", err)
	}
	if len(content) < p.settings.MinNoteLength {
		logger.Debug("pipeline: %s below minimum length, skipping", path)
		return false, nil
	}

	analysisCtx, cancel := context.WithTimeout(ctx, p.settings.AnalysisTimeout)
	defer cancel()
	analysed, err := p.analysis.Analyse(analysisCtx, p.settings.SystemPrompt, content)
	if err != nil {
		if errors.Is(analysisCtx.Err(), context.DeadlineExceeded) {
			return false, fmt.Errorf("%w: %v", domain.ErrAnalysisTimeout, err)
		}
		return false, fmt.Errorf("analyse note: %w", err)
	}

	// Re-read immediately before the merge: the analysis call is the slow
	// step and the note may have been edited meanwhile. This narrows, but
	// does not eliminate, the window for losing a concurrent human edit.
	latest, err := p.vault.ReadNote(path)
	if err != nil {
		return false, fmt.Errorf("re-read note: %w", err)
	}

	merged := p.merger.Merge(latest, analysed)
	if !merged.Changed {
		logger.Debug("pipeline: %s unchanged after merge", path)
		return false, nil
	}

	if err := p.vault.WriteNoteAtomic(path, merged.NewText); err != nil {
		return false, fmt.Errorf("write note: %w", err)
	}
	return true, nil
}

// record persists a terminal result; history failures are logged only.
func (p *Pipeline) record(ctx context.Context, result *domain.ProcessResult) {
	if p.history == nil {
		return
	}
	if err := p.history.Record(ctx, result); err != nil {
		logger.Warn("pipeline: failed to record result for %s: %v", result.Path, err)
	}
}

// Stop cancels pending debounce timers, rejects new notifications and
// waits for in-flight runs up to a grace period, after which they are
// abandoned via context cancellation.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()

	p.debouncer.Stop()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(stopGracePeriod):
		logger.Warn("pipeline: grace period elapsed, abandoning in-flight work")
	}

	if cancel != nil {
		cancel()
	}
	return nil
}
