// Package watch is the change source: it turns fsnotify filesystem events
// under the vault root into pipeline notifications. Events are forwarded
// raw and possibly duplicated; coalescing is the pipeline's debouncer's
// job, not the watcher's.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/memolab/vaultscribe/internal/core/domain"
	"github.com/memolab/vaultscribe/internal/logger"
)

// Watcher monitors a directory tree recursively. fsnotify does not watch
// recursively by itself, so every subdirectory is registered individually
// and newly created subdirectories are added as they appear.
type Watcher struct {
	root   string
	notify func(event domain.ChangeEvent)

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher for the tree rooted at root. notify is invoked
// once per raw file change; it must be safe for concurrent use.
func New(root string, notify func(event domain.ChangeEvent)) *Watcher {
	return &Watcher{
		root:   root,
		notify: notify,
	}
}

// Start registers the directory tree and begins forwarding events. It
// returns once watching is established; the event loop runs until Stop.
func (w *Watcher) Start(_ context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := addTree(fsw, w.root); err != nil {
		fsw.Close()
		return err
	}

	w.mu.Lock()
	w.watcher = fsw
	w.done = make(chan struct{})
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(fsw)

	logger.Info("watch: watching %s", w.root)
	return nil
}

// loop forwards events until the watcher is stopped.
func (w *Watcher) loop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// handleEvent forwards file writes and creations. A created directory is
// registered so its future contents are watched too. Removes and renames
// are not forwarded: a deleted note has nothing left to analyse.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if isHidden(event.Name) {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, event.Name); err != nil {
				logger.Warn("watch: failed to watch new folder %s: %v", event.Name, err)
			}
			return
		}
	}

	if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
		kind := domain.ChangeModified
		if event.Op.Has(fsnotify.Create) {
			kind = domain.ChangeCreated
		}
		logger.Debug("watch: %s %s", event.Op, event.Name)
		w.notify(domain.ChangeEvent{
			Path:       event.Name,
			Kind:       kind,
			ObservedAt: time.Now(),
		})
	}
}

// addTree registers dir and every non-hidden subdirectory beneath it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// isHidden reports whether any path element is dot-prefixed.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// Stop halts event forwarding and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsw := w.watcher
	done := w.done
	w.watcher = nil
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}

	close(done)
	err := fsw.Close()
	w.wg.Wait()
	return err
}
