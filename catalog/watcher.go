package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/katalvlaran/mensura/core"
)

// ReloadHandler receives the rules of every successful reload.
type ReloadHandler func(rules []core.Rule)

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Debounce is how long to wait for more events before reloading.
	// Default: 200ms
	Debounce time.Duration

	// Logger receives reload results. Default: discard.
	Logger *slog.Logger

	// OnError is called when a reload fails. The previous catalog stays in
	// effect. Optional.
	OnError func(err error)
}

// DefaultWatcherOptions returns sensible defaults.
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{
		Debounce: 200 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Watcher reloads a catalog file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original
// are picked up. Bursts of events are collapsed by the debounce window.
//
// A reload that fails to decode or validate is reported through OnError and
// the logger; the handler is only called with valid catalogs.
type Watcher struct {
	path    string
	handler ReloadHandler
	opts    WatcherOptions
}

// NewWatcher prepares a watcher for the catalog at path. It holds no OS
// resources: the notification handle is opened by Run and closed when Run
// returns.
func NewWatcher(path string, handler ReloadHandler, opts *WatcherOptions) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("catalog: nil reload handler")
	}
	cfg := DefaultWatcherOptions()
	if opts != nil {
		if opts.Debounce > 0 {
			cfg.Debounce = opts.Debounce
		}
		if opts.Logger != nil {
			cfg.Logger = opts.Logger
		}
		cfg.OnError = opts.OnError
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: resolve %s: %w", path, err)
	}

	return &Watcher{path: abs, handler: handler, opts: cfg}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run watches until ctx is canceled. It returns nil on cancellation and an
// error only if the watch could not be established.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer fsw.Close()

	if err = fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(w.path), err)
	}
	w.opts.Logger.Info("watching catalog", slog.String("path", w.path))

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
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("catalog watch error", slog.Any("error", err))

		case <-timerC:
			timerC = nil
			w.reload()
		}
	}
}

// relevant reports whether event may have changed the catalog contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// reload loads the file and dispatches the result.
func (w *Watcher) reload() {
	rules, err := Load(w.path)
	if err != nil {
		w.opts.Logger.Error("catalog reload failed", slog.String("path", w.path), slog.Any("error", err))
		if w.opts.OnError != nil {
			w.opts.OnError(err)
		}
		return
	}

	w.opts.Logger.Info("catalog reloaded", slog.String("path", w.path), slog.Int("rules", len(rules)))
	w.handler(rules)
}
