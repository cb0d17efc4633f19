// Package watch reports batches of filesystem changes under a set of
// directory trees.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/logger"
)

// DefaultDebounce is how long the watcher waits for changes to settle
// before reporting a batch.
const DefaultDebounce = 100 * time.Millisecond

// ErrClosed is returned by Add after the watcher stopped.
var ErrClosed = errors.New("watcher closed")

// ChangeFunc receives the sorted, de-duplicated paths changed since the
// previous call.
type ChangeFunc func(paths []string)

// Watcher watches directory trees recursively. Hidden files and
// directories are ignored, as are editor backup files ending in "~".
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration
	ignore   []string
	log      *logger.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithIgnore skips events under the given directories.
func WithIgnore(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			if abs, err := filepath.Abs(d); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// WithLogger sets the logger used for watch errors.
func WithLogger(l *logger.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New creates a watcher calling onChange after each settled batch.
func New(onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		onChange: onChange,
		debounce: DefaultDebounce,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches root and every non-hidden directory below it. A file root
// is watched directly.
func (w *Watcher) Add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (fileutil.IsHidden(d.Name()) || w.ignored(path)) {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func (w *Watcher) add(path string) error {
	if err := w.fs.Add(path); err != nil {
		if errors.Is(err, fsnotify.ErrClosed) {
			return ErrClosed
		}
		return fmt.Errorf("watching %s: %w", path, err)
	}
	return nil
}

// WatchList returns the watched paths in lexical order.
func (w *Watcher) WatchList() []string {
	list := w.fs.WatchList()
	slices.Sort(list)
	return list
}

// Close releases the watcher. Run closes it on return, so Close is only
// needed when Run is never called.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run dispatches events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	pending := make(map[string]struct{})
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.watchNewDir(event.Name)
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			w.onChange(paths)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if fileutil.IsHidden(name) || strings.HasSuffix(name, "~") {
		return false
	}
	return !w.ignored(event.Name)
}

// watchNewDir picks up directories created after Add.
func (w *Watcher) watchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.Add(path); err != nil {
		w.log.Warn("watching new directory", "path", path, "error", err)
	}
}

func (w *Watcher) ignored(path string) bool {
	if len(w.ignore) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
