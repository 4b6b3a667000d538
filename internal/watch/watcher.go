// Package watch re-stages assets when their sources change or on a fixed schedule.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/assetstager/internal/logfields"
)

// Trigger names what caused a staging run.
type Trigger string

const (
	TriggerInitial Trigger = "initial"
	TriggerChange  Trigger = "change"
	TriggerResync  Trigger = "resync"
)

// SourceWatcher monitors manifest sources and calls back once a burst of
// changes has been quiet for the debounce period.
//
// Sources are watched through their parent directories, which survive editors
// and package managers that replace files by rename. A parent that does not
// exist yet is covered by watching its nearest existing ancestor.
type SourceWatcher struct {
	watcher  *fsnotify.Watcher
	sources  map[string]bool
	watched  map[string]bool
	debounce time.Duration
	logger   *slog.Logger
}

// NewSourceWatcher creates a watcher for sources, resolving relative paths against root.
func NewSourceWatcher(root string, sources []string, debounce time.Duration, logger *slog.Logger) (*SourceWatcher, error) {
	if debounce <= 0 {
		return nil, fmt.Errorf("debounce must be positive, got %s", debounce)
	}
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	sw := &SourceWatcher{
		watcher:  watcher,
		sources:  make(map[string]bool, len(sources)),
		watched:  make(map[string]bool),
		debounce: debounce,
		logger:   logger,
	}
	for _, src := range sources {
		if !filepath.IsAbs(src) {
			src = filepath.Join(root, src)
		}
		abs, err := filepath.Abs(src)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve source path %s: %w", src, err)
		}
		sw.sources[abs] = true
	}
	if err := sw.rewatch(); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return sw, nil
}

// Watched returns the directories currently watched, sorted.
func (sw *SourceWatcher) Watched() []string {
	out := make([]string, 0, len(sw.watched))
	for dir := range sw.watched {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

// Close stops watching. Run closes the watcher itself when it returns.
func (sw *SourceWatcher) Close() error {
	return sw.watcher.Close()
}

// Run delivers debounced change notifications to fn until ctx is done, then
// closes the underlying watcher. fn runs on the watcher goroutine, so changes
// that happen while it runs are coalesced into the next notification.
func (sw *SourceWatcher) Run(ctx context.Context, fn func(context.Context, Trigger)) error {
	defer func() {
		if err := sw.Close(); err != nil {
			sw.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return nil
			}
			if !sw.handle(event) {
				continue
			}
			timer.Reset(sw.debounce)
			pending = timer.C
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return nil
			}
			sw.logger.Error("Source watcher error", logfields.Error(err))
		case <-pending:
			pending = nil
			fn(ctx, TriggerChange)
		}
	}
}

// handle reports whether event concerns a source, updating watches when
// directories on the way to a source appear or disappear.
func (sw *SourceWatcher) handle(event fsnotify.Event) bool {
	path := filepath.Clean(event.Name)
	if sw.sources[path] {
		sw.logger.Debug("Source change detected", logfields.File(path), slog.String("op", event.Op.String()))
		return true
	}
	if !sw.onSourcePath(path) {
		return false
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if sw.watched[path] && !event.Has(fsnotify.Create) {
			delete(sw.watched, path)
		}
		if err := sw.rewatch(); err != nil {
			sw.logger.Warn("Failed to update source watches", logfields.Path(path), logfields.Error(err))
		}
		sw.logger.Debug("Source directory change detected", logfields.Path(path), slog.String("op", event.Op.String()))
		return true
	}
	return false
}

// onSourcePath reports whether path is a directory on the way to some source.
func (sw *SourceWatcher) onSourcePath(path string) bool {
	prefix := path + string(filepath.Separator)
	for src := range sw.sources {
		if strings.HasPrefix(src, prefix) {
			return true
		}
	}
	return false
}

// rewatch ensures the deepest existing directory of every source is watched.
func (sw *SourceWatcher) rewatch() error {
	for src := range sw.sources {
		dir := nearestExistingDir(filepath.Dir(src))
		if sw.watched[dir] {
			continue
		}
		if err := sw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		sw.watched[dir] = true
		sw.logger.Debug("Watching directory", logfields.Path(dir))
	}
	return nil
}

func nearestExistingDir(dir string) string {
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
