package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

type notifyRecorder struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (r *notifyRecorder) notify(event domain.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *notifyRecorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Path == path {
			return true
		}
	}
	return false
}

func (r *notifyRecorder) kindOf(path string) domain.ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Path == path {
			return e.Kind
		}
	}
	return ""
}

func (r *notifyRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, root string, rec *notifyRecorder) *Watcher {
	t.Helper()
	w := New(root, rec.notify)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { w.Stop() })
	// Give the OS watcher a moment to become effective.
	time.Sleep(50 * time.Millisecond)
	return w
}

func TestWatcher_FileEvents(t *testing.T) {
	t.Run("created file is reported", func(t *testing.T) {
		root := t.TempDir()
		rec := &notifyRecorder{}
		startWatcher(t, root, rec)

		target := filepath.Join(root, "note.md")
		require.NoError(t, os.WriteFile(target, []byte("hello"), 0o644))

		require.True(t, waitUntil(t, 2*time.Second, func() bool { return rec.seen(target) }))
		assert.Equal(t, domain.ChangeCreated, rec.kindOf(target))
	})

	t.Run("modified file is reported", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "note.md")
		require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

		rec := &notifyRecorder{}
		startWatcher(t, root, rec)

		require.NoError(t, os.WriteFile(target, []byte("v2"), 0o644))

		assert.True(t, waitUntil(t, 2*time.Second, func() bool { return rec.seen(target) }))
	})

	t.Run("file in a pre-existing subdirectory is reported", func(t *testing.T) {
		root := t.TempDir()
		sub := filepath.Join(root, "projects")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		rec := &notifyRecorder{}
		startWatcher(t, root, rec)

		target := filepath.Join(sub, "plan.md")
		require.NoError(t, os.WriteFile(target, []byte("plan"), 0o644))

		assert.True(t, waitUntil(t, 2*time.Second, func() bool { return rec.seen(target) }))
	})

	t.Run("newly created subdirectory is watched", func(t *testing.T) {
		root := t.TempDir()
		rec := &notifyRecorder{}
		startWatcher(t, root, rec)

		sub := filepath.Join(root, "fresh")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		// Registration of the new directory races with the write.
		time.Sleep(100 * time.Millisecond)

		target := filepath.Join(sub, "new.md")
		require.NoError(t, os.WriteFile(target, []byte("content"), 0o644))

		assert.True(t, waitUntil(t, 2*time.Second, func() bool { return rec.seen(target) }))
	})

	t.Run("hidden files are ignored", func(t *testing.T) {
		root := t.TempDir()
		rec := &notifyRecorder{}
		startWatcher(t, root, rec)

		hidden := filepath.Join(root, ".hidden.md")
		require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o644))
		visible := filepath.Join(root, "visible.md")
		require.NoError(t, os.WriteFile(visible, []byte("x"), 0o644))

		require.True(t, waitUntil(t, 2*time.Second, func() bool { return rec.seen(visible) }))
		assert.False(t, rec.seen(hidden))
	})

	t.Run("deleted file is not reported", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "note.md")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

		rec := &notifyRecorder{}
		startWatcher(t, root, rec)

		require.NoError(t, os.Remove(target))

		time.Sleep(200 * time.Millisecond)
		assert.False(t, rec.seen(target))
	})
}

func TestWatcher_Stop(t *testing.T) {
	t.Run("no events after stop", func(t *testing.T) {
		root := t.TempDir()
		rec := &notifyRecorder{}
		w := New(root, rec.notify)
		require.NoError(t, w.Start(context.Background()))
		time.Sleep(50 * time.Millisecond)

		require.NoError(t, w.Stop())
		before := rec.count()

		require.NoError(t, os.WriteFile(filepath.Join(root, "late.md"), []byte("x"), 0o644))
		time.Sleep(200 * time.Millisecond)
		assert.Equal(t, before, rec.count())
	})

	t.Run("stop without start", func(t *testing.T) {
		w := New(t.TempDir(), func(domain.ChangeEvent) {})
		assert.NoError(t, w.Stop())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		w := New(t.TempDir(), func(domain.ChangeEvent) {})
		require.NoError(t, w.Start(context.Background()))
		require.NoError(t, w.Stop())
		assert.NoError(t, w.Stop())
	})
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden("/vault/.obsidian/workspace"))
	assert.True(t, isHidden("/vault/.trash/note.md"))
	assert.True(t, isHidden(".hidden.md"))
	assert.False(t, isHidden("/vault/notes/a.md"))
	assert.False(t, isHidden("./relative/a.md"))
}
