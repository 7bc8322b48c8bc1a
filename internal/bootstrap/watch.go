package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"lifecycler/pkg/logging"
)

const watcherSubsystem = "Watcher"

// DefaultDebounce is how long the watcher waits for further changes before
// rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// Watcher rebuilds the artifact when any aggregated source file changes.
type Watcher struct {
	builder     *Builder
	resolver    Resolver
	outputDir   string
	autoloadDir string
	modules     []string
	debounce    time.Duration
}

// NewWatcher creates a watcher for one artifact. A zero debounce uses
// DefaultDebounce.
func NewWatcher(b *Builder, outputDir, autoloadDir string, modules []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		builder:     b,
		resolver:    b.resolver,
		outputDir:   outputDir,
		autoloadDir: autoloadDir,
		modules:     append([]string(nil), modules...),
		debounce:    debounce,
	}
}

// Run builds once, then rebuilds after every burst of changes to the
// aggregated sources until ctx is cancelled. onBuild is called after each
// build, including the first; a failed build does not stop the watcher.
func (w *Watcher) Run(ctx context.Context, onBuild func(*Artifact, error)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	watched := make(map[string]bool)
	rebuild := func() {
		artifact, err := w.builder.Build(w.outputDir, w.autoloadDir, w.modules)
		if onBuild != nil {
			onBuild(artifact, err)
		}
		w.refreshWatches(fw, watched)
	}

	rebuild()
	logging.Info(watcherSubsystem, "Watching %d source files for changes", len(watched))

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
			logging.Debug(watcherSubsystem, "Stopped watching")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logging.Debug(watcherSubsystem, "Change detected: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			rebuild()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.Warn(watcherSubsystem, "File watcher error: %v", err)
		}
	}
}

// refreshWatches watches the directory of every resolvable source plus the
// autoloader. Directories are watched rather than files so that editors
// which replace files on save are still seen.
func (w *Watcher) refreshWatches(fw *fsnotify.Watcher, watched map[string]bool) {
	files := make([]string, 0, len(w.modules)+1)
	for _, module := range w.modules {
		if path, ok := w.resolver.FindFile(module); ok {
			files = append(files, path)
		}
	}
	if w.autoloadDir != "" {
		files = append(files, filepath.Join(w.autoloadDir, AutoloadFileName))
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		watched[filepath.Clean(abs)] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			logging.Warn(watcherSubsystem, "Cannot watch %s: %v", dir, err)
		}
	}
}
