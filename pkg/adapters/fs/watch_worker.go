package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/botstrap/pkg/core"
)

// DefaultWatchPatterns select the artifact files of a bot directory.
var DefaultWatchPatterns = []string{"{bot,cfgs,meta}.*"}

// defaultWatchIgnores are never reported, whatever the patterns say.
var defaultWatchIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
	"**/" + TempFilePrefix + "*",
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Dir is the bot directory to watch.
	Dir string
	// Patterns are doublestar globs relative to Dir. Empty means
	// DefaultWatchPatterns.
	Patterns []string
	// Debounce coalesces bursts of events on one file. Zero means 50ms.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher reports changes to a bot's artifacts as core.Event values.
// It runs as a lifecycle worker.
type Watcher struct {
	*worker.BaseWorker
	dir       string
	patterns  []string
	delay     time.Duration
	logger    *slog.Logger
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
	active    atomic.Bool
	sent      atomic.Int64
}

// NewWatcher creates a Watcher that sends events to events.
// The channel is owned by the caller and is never closed by the Watcher.
func NewWatcher(config WatcherConfig, events chan<- core.Event) (*Watcher, error) {
	dir, err := filepath.Abs(config.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve directory: %w", err)
	}

	patterns := config.Patterns
	if len(patterns) == 0 {
		patterns = DefaultWatchPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("watch: invalid pattern %q", p)
		}
	}

	delay := config.Debounce
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		BaseWorker: worker.NewBaseWorker("bot-watcher"),
		dir:        dir,
		patterns:   patterns,
		delay:      delay,
		logger:     logger,
		events:     events,
	}, nil
}

// Dir returns the absolute directory being watched.
func (w *Watcher) Dir() string {
	return w.dir
}

// Active reports whether the event loop is running.
func (w *Watcher) Active() bool {
	return w.active.Load()
}

func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch: %s is not a directory", w.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch: add %s: %w", w.dir, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(w.delay)
	w.active.Store(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"dir":               w.dir,
			"patterns":          strings.Join(w.patterns, ","),
			"events_sent":       fmt.Sprintf("%d", w.sent.Load()),
		}
	})
}

// run is the main event loop for the watcher worker.
func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.active.Store(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Wait for in-flight timers so nothing is sent after run returns.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

func (w *Watcher) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	w.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if !w.matches(rel) {
		return
	}

	eType := mapEventType(event)
	if eType == "" {
		return
	}

	base := filepath.Base(event.Name)
	e := core.Event{
		Type:      eType,
		Name:      strings.TrimSuffix(base, filepath.Ext(base)),
		Path:      event.Name,
		Timestamp: time.Now().Unix(),
	}

	w.debouncer.add(e.Path, func() {
		select {
		case w.events <- e:
			w.sent.Add(1)
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) matches(rel string) bool {
	for _, pat := range defaultWatchIgnores {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	for _, pat := range w.patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// debouncer delays a callback per key until no new event for that key has
// arrived for the configured delay.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[key]; ok && t.Stop() {
		// The pending callback never ran; release its slot.
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// stopAndWait cancels pending callbacks and waits for running ones.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
