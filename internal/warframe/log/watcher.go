package ee_log

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"wfm-sync/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher signals when EE.log has been written to. The parent directory is
// watched so the file may be created or replaced while the watcher runs.
type Watcher struct {
	path     string
	debounce time.Duration
	maxWait  time.Duration
	fs       *fsnotify.Watcher
	log      *logger.Logger
}

func NewWatcher(path string, log *logger.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch log directory %s: %w", dir, err)
	}

	log.Debug("Watching log directory", "dir", dir, "file", filepath.Base(path))

	return &Watcher{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		maxWait:  2 * defaultDebounce,
		fs:       fs,
		log:      log,
	}, nil
}

// SetDebounce changes how long the watcher waits for writes to settle. The
// longest a burst can delay a signal is reset to twice that.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
	w.maxWait = 2 * d
}

// Run sends on changed once writes to the log have been quiet for the
// debounce interval, or once the first write of a burst is maxWait old.
// Signals are dropped while the receiver is busy. Run returns when ctx is
// cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, changed chan<- struct{}) error {
	quiet := time.NewTimer(0)
	quiet.Stop()
	defer quiet.Stop()

	deadline := time.NewTimer(0)
	deadline.Stop()
	defer deadline.Stop()

	pending := false
	fire := func() {
		quiet.Stop()
		deadline.Stop()
		pending = false
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.Debug("Log file changed", "op", event.Op.String())
			if !pending {
				pending = true
				deadline.Reset(w.maxWait)
			}
			quiet.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("File watcher error", err)

		case <-quiet.C:
			fire()

		case <-deadline.C:
			w.log.Debug("Log still being written, signalling anyway", "max_wait", w.maxWait.String())
			fire()
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
