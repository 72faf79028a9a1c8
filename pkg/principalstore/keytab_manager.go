package principalstore

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dirsrv/kdc/internal/logger"
)

// keytabPollInterval is how often the on-disk keytab is checked for a
// newer modification time.
const keytabPollInterval = 60 * time.Second

// keytabWatcher polls a keytab path on disk and invokes a reload
// callback whenever its modification time advances. Polling is used
// instead of a filesystem notifier because keytabs are typically
// replaced by an atomic rename from key-rotation tooling, a pattern
// fsnotify does not surface consistently across platforms.
type keytabWatcher struct {
	path      string
	onChanged func() error

	mu       sync.Mutex
	seenMod  time.Time
	done     chan struct{}
	doneOnce sync.Once
}

func newKeytabWatcher(path string, onChanged func() error) *keytabWatcher {
	return &keytabWatcher{
		path:      path,
		onChanged: onChanged,
		done:      make(chan struct{}),
	}
}

// Start records the keytab's current modification time and launches
// the background poller. It fails if the keytab cannot be stat'd.
func (w *keytabWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("keytab file not accessible: %w", err)
	}
	w.seenMod = info.ModTime()

	go w.run()

	logger.Info("watching keytab for changes", "path", w.path, "interval", keytabPollInterval.String())
	return nil
}

// Stop ends the background poller. Idempotent.
func (w *keytabWatcher) Stop() {
	w.doneOnce.Do(func() { close(w.done) })
}

func (w *keytabWatcher) run() {
	ticker := time.NewTicker(keytabPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.reloadIfChanged()
		case <-w.done:
			return
		}
	}
}

func (w *keytabWatcher) reloadIfChanged() {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := os.Stat(w.path)
	if err != nil {
		logger.Error("keytab stat failed during poll", "path", w.path, "error", err)
		return
	}

	modTime := info.ModTime()
	if modTime.Equal(w.seenMod) {
		return
	}

	if err := w.onChanged(); err != nil {
		logger.Error("keytab reload callback failed", "path", w.path, "error", err)
		return
	}

	w.seenMod = modTime
	logger.Info("keytab reloaded after on-disk change", "path", w.path)
}
