// Package watch re-indexes a source file's symbols whenever it changes on
// disk, so completions follow edits made outside the host.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bastiangx/cppcomplete/internal/logger"
	"github.com/bastiangx/cppcomplete/pkg/symbols"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 100 * time.Millisecond

// Indexer receives the file contents after every settled change.
type Indexer interface {
	Index(buffer string) []symbols.Symbol
}

// Watcher watches one file. The parent directory is watched rather than the
// file itself so that editors which save by rename are still seen.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	target   Indexer
	debounce time.Duration
	log      *log.Logger

	onIndex func([]symbols.Symbol)

	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	watching bool
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, target Indexer, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		fsw:      fsw,
		target:   target,
		debounce: debounce,
		log:      logger.New("watch"),
		done:     make(chan struct{}),
	}, nil
}

// OnIndex registers fn to be called with the symbols of every re-index.
// It must be set before Start.
func (w *Watcher) OnIndex(fn func([]symbols.Symbol)) {
	w.onIndex = fn
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start indexes the file once, then re-indexes after each burst of changes
// until ctx is cancelled or Stop is called. A missing file is not an error;
// it is indexed once it appears.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	if _, err := w.Reindex(); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.log.Warn("initial index failed", "path", w.path, "err", err)
	}

	go w.loop(ctx)
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// Reindex reads the file and hands it to the indexer.
func (w *Watcher) Reindex() ([]symbols.Symbol, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", w.path, err)
	}
	syms := w.target.Index(string(data))
	w.log.Debug("reindexed", "path", w.path, "symbols", len(syms))
	if w.onIndex != nil {
		w.onIndex(syms)
	}
	return syms, nil
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			if _, err := w.Reindex(); err != nil {
				w.log.Warn("reindex failed", "err", err)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
