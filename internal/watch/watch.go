// Package watch triggers regeneration when model sources change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last change before a
// trigger fires.
const DefaultDebounce = 300 * time.Millisecond

// DefaultExtensions are the model source files watched by default.
var DefaultExtensions = []string{".go", ".yaml", ".yml"}

// TriggerFunc receives the paths changed since the previous trigger, sorted.
type TriggerFunc func(ctx context.Context, changed []string)

// Options configures a Watcher.
type Options struct {
	Dirs       []string
	Debounce   time.Duration
	Extensions []string
}

// Watcher batches file system events on model sources.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	exts     []string
	trigger  TriggerFunc
	logger   *zap.Logger
}

// New starts watching opts.Dirs. Events are delivered once Run is called.
func New(opts Options, trigger TriggerFunc, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, dir := range opts.Dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return &Watcher{
		fs:       fw,
		debounce: opts.Debounce,
		exts:     opts.Extensions,
		trigger:  trigger,
		logger:   logger,
	}, nil
}

// Run delivers debounced triggers until ctx is done. It closes the watcher
// on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			if !w.relevant(ev) {
				continue
			}

			w.logger.Debug("model source changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			pending[ev.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(pending)

			w.logger.Info("regenerating", zap.Int("changed", len(changed)))
			w.trigger(ctx, changed)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	return slices.Contains(w.exts, filepath.Ext(ev.Name))
}
