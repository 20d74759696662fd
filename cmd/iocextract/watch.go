package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nao1215/iocextract/internal/config"
	"github.com/nao1215/iocextract/internal/document"
	"github.com/spf13/cobra"
)

// minWatchTick bounds how often pending files are checked.
const minWatchTick = 50 * time.Millisecond

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Extract indicators from every document saved into a directory",
		Long: `Watch monitors a directory and extracts indicators from each supported
document that is created or modified in it, for example a browser's
download folder.

A file is processed once it has not changed for the settle delay, so
documents that are still being written are not read half-finished.
Files are processed one at a time. A failing document is logged and
watching continues. Press Ctrl+C to stop.

Examples:
  # Watch the downloads folder
  iocextract watch ~/Downloads

  # Also process the documents already in the directory
  iocextract watch --existing ~/Downloads

  # Wait five seconds after the last write before processing
  iocextract watch --settle 5s ~/Downloads`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchCmd,
	}

	addOutputFlags(cmd)
	cmd.Flags().Duration("settle", config.DefaultWatchSettleDelay,
		"How long a file must stay unchanged before it is processed")
	cmd.Flags().Bool("existing", false,
		"Process supported documents already in the directory first")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	dir := cfg.Inputs[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	existing, err := cmd.Flags().GetBool("existing")
	if err != nil {
		return err
	}

	logger, closer, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runWatch(ctx, cmd.OutOrStdout(), cfg, dir, existing, logger)
}

// runWatch watches dir until ctx is cancelled.
func runWatch(ctx context.Context, out io.Writer, cfg *config.Config, dir string, existing bool, logger *slog.Logger) error {
	writer, err := newReportWriter(cfg, out)
	if err != nil {
		return err
	}

	processor, cleanup := newProcessor(cfg, logger)
	defer cleanup()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	loop := newWatchLoop(document.NewRegistry(), cfg.WatchSettleDelay, logger,
		func(ctx context.Context, path string) error {
			run, err := processor.Process(ctx, path)
			if err != nil {
				return err
			}
			_, err = writer.Write(run)
			return err
		})
	loop.skipPath(cfg.Log.File)

	if existing {
		if err := loop.queueExisting(dir); err != nil {
			return err
		}
	}

	logger.Info("watching directory", "path", dir, "settle", cfg.WatchSettleDelay)
	return loop.run(ctx, watcher.Events, watcher.Errors)
}

// watchLoop turns file system events into one extraction per settled file.
type watchLoop struct {
	registry *document.Registry
	settle   time.Duration
	logger   *slog.Logger
	process  func(ctx context.Context, path string) error

	// pending maps a path to the time of its last event.
	pending map[string]time.Time

	// skip holds absolute paths that are never processed.
	skip map[string]struct{}
}

func newWatchLoop(
	registry *document.Registry,
	settle time.Duration,
	logger *slog.Logger,
	process func(ctx context.Context, path string) error,
) *watchLoop {
	return &watchLoop{
		registry: registry,
		settle:   settle,
		logger:   logger,
		process:  process,
		pending:  make(map[string]time.Time),
		skip:     make(map[string]struct{}),
	}
}

// skipPath excludes path from processing. The log file is skipped so that
// logging about a run cannot trigger another run.
func (l *watchLoop) skipPath(path string) {
	if path == "" {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		l.skip[abs] = struct{}{}
	}
}

// queueExisting marks the supported files already in dir as pending.
func (l *watchLoop) queueExisting(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	now := time.Now()
	for _, e := range entries {
		if e.Type().IsRegular() {
			l.track(filepath.Join(dir, e.Name()), now)
		}
	}
	return nil
}

// run handles events until ctx is cancelled or the event channel closes.
func (l *watchLoop) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	ticker := time.NewTicker(max(l.settle/4, minWatchTick))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			l.handle(ev, time.Now())

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			l.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			l.flush(ctx, now)
		}
	}
}

// handle records or forgets a path depending on the event.
func (l *watchLoop) handle(ev fsnotify.Event, now time.Time) {
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		delete(l.pending, ev.Name)
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		l.track(ev.Name, now)
	}
}

// track marks path as changed at now if it is a supported document.
func (l *watchLoop) track(path string, now time.Time) {
	name := filepath.Base(path)
	// Editors and office suites write lock and temp files next to the document.
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return
	}
	if !l.registry.Supported(path) {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		if _, ok := l.skip[abs]; ok {
			return
		}
	}
	l.pending[path] = now
}

// flush processes every pending file that has settled, in path order.
func (l *watchLoop) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range l.pending {
		if now.Sub(last) >= l.settle {
			ready = append(ready, path)
		}
	}
	slices.Sort(ready)

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		delete(l.pending, path)

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
			continue
		}

		if err := l.process(ctx, path); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			l.logger.Warn("extraction failed", "path", path, "error", err)
		}
	}
}
