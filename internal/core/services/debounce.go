package services

import (
	"sync"
	"time"

	"github.com/memolab/vaultscribe/internal/logger"
)

// pendingTrigger is one path currently inside its debounce window.
// Generation invalidates stale timers: a fire whose generation no longer
// matches the table entry was superseded by a later event and is dropped.
type pendingTrigger struct {
	generation uint64
	timer      *time.Timer
}

// Debouncer coalesces bursts of change events per path into a single
// trigger fired one quiet period after the last event for that path.
// It owns one timer per distinct path and does no processing itself.
type Debouncer struct {
	quiet time.Duration
	emit  func(path string)

	mu      sync.Mutex
	stopped bool
	pending map[string]*pendingTrigger
}

// NewDebouncer creates a debouncer. emit is called with the path each time
// a debounce window closes; it runs on the timer goroutine and must not
// block other paths' timers for long.
func NewDebouncer(quiet time.Duration, emit func(path string)) *Debouncer {
	return &Debouncer{
		quiet:   quiet,
		emit:    emit,
		pending: make(map[string]*pendingTrigger),
	}
}

// OnEvent records a change event for a path. The previous timer for the
// path, if any, is cancelled and rescheduled; letting a superseded timer
// fire and emit would process a half-written note.
func (d *Debouncer) OnEvent(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	p, ok := d.pending[path]
	if !ok {
		p = &pendingTrigger{}
		d.pending[path] = p
	} else {
		p.timer.Stop()
	}
	p.generation++

	generation := p.generation
	p.timer = time.AfterFunc(d.quiet, func() {
		d.fire(path, generation)
	})
}

// fire runs when a timer expires. The trigger is emitted only when the
// generation is still current; a stale fire is dropped silently so that
// only the latest edit within a window is ever processed. The path may no
// longer exist by now - existence is re-validated downstream, because the
// file may legitimately be mid-write.
func (d *Debouncer) fire(path string, generation uint64) {
	d.mu.Lock()
	p, ok := d.pending[path]
	if !ok || p.generation != generation || d.stopped {
		d.mu.Unlock()
		logger.Debug("debounce: dropping stale trigger for %s", path)
		return
	}
	delete(d.pending, path)
	d.mu.Unlock()

	d.emit(path)
}

// Pending returns the number of paths currently inside a debounce window.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels all pending timers. No triggers are emitted after Stop
// returns and later events are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
}
