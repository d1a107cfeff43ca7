// Package watcher detects edits to the source file, debounces the
// noisy notification stream, re-runs the content pipeline, and
// publishes a new snapshot when the derived output actually changed.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/breach/internal/content"
	"github.com/conneroisu/breach/internal/logging"
	"github.com/conneroisu/breach/internal/styles"
)

const (
	// DefaultDebounce is the quiet period after the last file event
	// before the pipeline re-runs.
	DefaultDebounce = 100 * time.Millisecond
	// DefaultPoll is how often the pending debounce window is checked.
	DefaultPoll = 50 * time.Millisecond
)

// Notifier receives one signal after each published snapshot.
type Notifier interface {
	Broadcast()
}

// Options tune the watcher's debounce behavior.
type Options struct {
	Debounce time.Duration
	Poll     time.Duration
}

// FileWatcher drives the reload state machine for one watched file.
// Its loop runs on a single goroutine: file events mark a change as
// pending and reset the debounce window; a poll tick closes the window
// and triggers one rebuild pass at a time.
type FileWatcher struct {
	path     string
	store    *content.Store
	pre      *styles.Preprocessor
	notifier Notifier
	logger   logging.Logger
	debounce time.Duration
	poll     time.Duration
	watcher  *fsnotify.Watcher
}

// New creates a watcher for path. The parent directory is watched
// rather than the file itself: editors commonly replace files via
// rename, which silently drops a watch on the old inode.
func New(path string, store *content.Store, pre *styles.Preprocessor, notifier Notifier, logger logging.Logger, opts Options) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Poll <= 0 {
		opts.Poll = DefaultPoll
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	return &FileWatcher{
		path:     abs,
		store:    store,
		pre:      pre,
		notifier: notifier,
		logger:   logger,
		debounce: opts.Debounce,
		poll:     opts.Poll,
		watcher:  fsWatcher,
	}, nil
}

// Start launches the watch loop. It returns immediately; the loop
// stops and releases the fsnotify watcher when ctx is cancelled.
func (w *FileWatcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *FileWatcher) run(ctx context.Context) {
	defer w.watcher.Close()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	lastFingerprint := w.store.Current().Fingerprint
	var pendingSince time.Time
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.matches(event) {
				// Every new event restarts the debounce window.
				pending = true
				pendingSince = time.Now()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "file watcher error")

		case <-ticker.C:
			if !pending || time.Since(pendingSince) < w.debounce {
				continue
			}
			pending = false
			lastFingerprint = w.reload(ctx, lastFingerprint)
		}
	}
}

// matches reports whether an fsnotify event is a modification of the
// watched file. The stream is a hint, not ground truth: the reload
// pass re-reads the file and decides from content.
func (w *FileWatcher) matches(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

// reload re-runs the full pipeline from the file bytes. The snapshot
// is published and the notifier signalled only when the fingerprint
// differs from the last published one; errors leave the last good
// snapshot live. Returns the fingerprint now current.
func (w *FileWatcher) reload(ctx context.Context, lastFingerprint uint64) uint64 {
	snap, err := content.BuildFile(ctx, w.path, w.pre)
	if err != nil {
		w.logger.Error(ctx, err, "reload failed, keeping last good snapshot", "path", w.path)
		return lastFingerprint
	}

	if snap.Fingerprint == lastFingerprint {
		w.logger.Debug(ctx, "content unchanged, skipping publish", "fingerprint", snap.Fingerprint)
		return lastFingerprint
	}

	w.store.Publish(snap)
	w.logger.Info(ctx, "published updated snapshot", "fingerprint", snap.Fingerprint)
	if w.notifier != nil {
		w.notifier.Broadcast()
	}
	return snap.Fingerprint
}
