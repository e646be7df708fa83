// Package settings provides a push-based settings provider: it watches the
// configuration file and delivers validated show-control settings snapshots
// to subscribers whenever the file changes.
package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stagecast/textship/internal/cliconfig"
	"github.com/stagecast/textship/internal/domain"
	"github.com/stagecast/textship/pkg/log"
)

// DefaultDebounceDelay is the pause after a file event before reloading,
// so editors that write in several steps trigger a single reload.
const DefaultDebounceDelay = 100 * time.Millisecond

// Watcher monitors one TOML config file and pushes settings replacements.
// A file revision that fails to parse or validate is logged and skipped;
// subscribers only ever see valid snapshots.
type Watcher struct {
	mu          sync.Mutex
	path        string
	base        cliconfig.Config
	changed     map[string]bool
	debounce    *time.Timer
	delay       time.Duration
	subscribers []func(domain.Settings)
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	logger      log.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDelay overrides the reload debounce delay.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// New creates a watcher for the config file at path. base is the startup
// configuration before file and env were layered on, and changed names the
// flags set explicitly on the command line. Every reload re-applies the
// file and the environment on top of base with startup precedence, so a
// flag-set value is never reverted by a file event.
func New(path string, base cliconfig.Config, changed map[string]bool, logger log.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		path:    path,
		base:    base,
		changed: changed,
		delay:   DefaultDebounceDelay,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe registers a callback for settings replacements. Callbacks run
// on the watcher's goroutine and are invoked in subscription order.
func (w *Watcher) Subscribe(fn func(domain.Settings)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// Start begins watching. It returns an error if the watch cannot be
// established; afterwards all failures are logged and self-healing.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	// Watch the directory, not the file: editors often replace the file,
	// which would drop a direct watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("settings watcher: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.watchLoop(watchCtx, watcher)
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	debounce := w.debounce
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if debounce != nil {
		debounce.Stop()
	}
	w.wg.Wait()
}

func (w *Watcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer w.wg.Done()
	defer watcher.Close()

	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("settings watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.reload)
}

// reload layers the current file contents and the environment over the
// base configuration, validates, and publishes the result.
func (w *Watcher) reload() {
	fc, err := cliconfig.LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("settings reload skipped", log.Err(err))
		return
	}
	cfg := w.base
	if err := cliconfig.ApplyFileConfig(&cfg, fc, w.changed); err != nil {
		w.logger.Warn("settings reload skipped", log.Err(err))
		return
	}
	if err := cliconfig.ApplyEnvConfig(&cfg, w.changed); err != nil {
		w.logger.Warn("settings reload skipped", log.Err(err))
		return
	}
	next := cfg.Settings()
	if err := next.Validate(); err != nil {
		w.logger.Warn("settings reload skipped", log.Err(err))
		return
	}

	w.mu.Lock()
	subscribers := append([]func(domain.Settings){}, w.subscribers...)
	w.mu.Unlock()

	w.logger.Info("settings replaced",
		log.String("addr", next.Addr()),
		log.Int("rotation", next.RotationCount),
	)
	for _, fn := range subscribers {
		fn(next)
	}
}
