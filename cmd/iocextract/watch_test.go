package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nao1215/iocextract/internal/config"
	"github.com/nao1215/iocextract/internal/document"
)

// TestNewWatchCmd tests the watch command creation.
func TestNewWatchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewWatchCmd()

	t.Run("requires exactly one directory", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, nil); err == nil {
			t.Error("expected error without arguments")
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Error("expected error with two arguments")
		}
	})

	t.Run("has settle flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("settle")
		if flag == nil {
			t.Fatal("expected settle flag")
		}
		if flag.DefValue != config.DefaultWatchSettleDelay.String() {
			t.Errorf("expected default %s, got %s", config.DefaultWatchSettleDelay, flag.DefValue)
		}
	})

	t.Run("rejects a file", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		file := env.writeInput(t, "notes.txt", sampleReport)

		_, err := env.execute(t, "watch", "-o", env.outputDir, file)
		if err == nil || !strings.Contains(err.Error(), "not a directory") {
			t.Errorf("expected 'not a directory' error, got %v", err)
		}
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestWatchLoop feeds synthetic events into the loop.
func TestWatchLoop(t *testing.T) {
	t.Parallel()

	t.Run("processes settled supported files once", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		doc := filepath.Join(dir, "report.txt")
		if err := os.WriteFile(doc, []byte(sampleReport), 0600); err != nil {
			t.Fatal(err)
		}

		processed := make(chan string, 10)
		loop := newWatchLoop(document.NewRegistry(), 20*time.Millisecond, discardLogger(),
			func(_ context.Context, path string) error {
				processed <- path
				return nil
			})

		events := make(chan fsnotify.Event, 10)
		errs := make(chan error)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- loop.run(ctx, events, errs) }()

		events <- fsnotify.Event{Name: doc, Op: fsnotify.Create}
		events <- fsnotify.Event{Name: doc, Op: fsnotify.Write}
		events <- fsnotify.Event{Name: filepath.Join(dir, "out.xlsx"), Op: fsnotify.Create}
		events <- fsnotify.Event{Name: filepath.Join(dir, ".report.txt.swp"), Op: fsnotify.Create}

		select {
		case got := <-processed:
			if got != doc {
				t.Errorf("processed %q, want %q", got, doc)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("file was not processed")
		}

		select {
		case got := <-processed:
			t.Errorf("unexpected second processing of %q", got)
		case <-time.After(200 * time.Millisecond):
		}

		cancel()
		if err := <-done; err != nil {
			t.Errorf("run() error = %v", err)
		}
	})

	t.Run("stops when the event channel closes", func(t *testing.T) {
		t.Parallel()

		loop := newWatchLoop(document.NewRegistry(), time.Second, discardLogger(),
			func(context.Context, string) error { return nil })

		events := make(chan fsnotify.Event)
		close(events)
		if err := loop.run(context.Background(), events, make(chan error)); err != nil {
			t.Errorf("run() error = %v", err)
		}
	})
}

func TestWatchLoopHandle(t *testing.T) {
	t.Parallel()

	now := time.Now()
	logFile := filepath.Join(t.TempDir(), "iocextract.log")

	loop := newWatchLoop(document.NewRegistry(), time.Second, discardLogger(),
		func(context.Context, string) error { return nil })
	loop.skipPath(logFile)

	loop.handle(fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Create}, now)
	loop.handle(fsnotify.Event{Name: "/in/b.html", Op: fsnotify.Write}, now)
	loop.handle(fsnotify.Event{Name: "/in/c.docx", Op: fsnotify.Create}, now)
	loop.handle(fsnotify.Event{Name: "/in/~$d.txt", Op: fsnotify.Create}, now)
	loop.handle(fsnotify.Event{Name: logFile, Op: fsnotify.Write}, now)
	loop.handle(fsnotify.Event{Name: "/in/e.pdf", Op: fsnotify.Chmod}, now)

	if len(loop.pending) != 2 {
		t.Fatalf("expected two pending files, got %v", loop.pending)
	}

	loop.handle(fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Remove}, now)
	if _, ok := loop.pending["/in/a.pdf"]; ok {
		t.Error("expected removed file to be forgotten")
	}
	if _, ok := loop.pending["/in/b.html"]; !ok {
		t.Error("expected b.html to stay pending")
	}
}

func TestWatchLoopFlush(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ready := filepath.Join(dir, "ready.txt")
	fresh := filepath.Join(dir, "fresh.txt")
	empty := filepath.Join(dir, "empty.txt")
	for path, content := range map[string]string{ready: sampleReport, fresh: sampleReport, empty: ""} {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	var processed []string
	loop := newWatchLoop(document.NewRegistry(), time.Second, discardLogger(),
		func(_ context.Context, path string) error {
			processed = append(processed, path)
			return nil
		})

	now := time.Now()
	loop.pending[ready] = now.Add(-2 * time.Second)
	loop.pending[empty] = now.Add(-2 * time.Second)
	loop.pending[fresh] = now
	loop.pending[filepath.Join(dir, "gone.txt")] = now.Add(-2 * time.Second)

	loop.flush(context.Background(), now)

	if len(processed) != 1 || processed[0] != ready {
		t.Errorf("expected only %s to be processed, got %v", ready, processed)
	}
	if _, ok := loop.pending[fresh]; !ok {
		t.Error("expected unsettled file to stay pending")
	}
	if len(loop.pending) != 1 {
		t.Errorf("expected settled entries to be removed, got %v", loop.pending)
	}
}

func TestWatchLoopFlush_PathOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	names := []string{"c.txt", "a.txt", "b.txt"}
	var processed []string
	loop := newWatchLoop(document.NewRegistry(), time.Second, discardLogger(),
		func(_ context.Context, path string) error {
			processed = append(processed, filepath.Base(path))
			return nil
		})

	now := time.Now()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(sampleReport), 0600); err != nil {
			t.Fatal(err)
		}
		loop.pending[path] = now.Add(-2 * time.Second)
	}

	loop.flush(context.Background(), now)

	if want := []string{"a.txt", "b.txt", "c.txt"}; !slices.Equal(processed, want) {
		t.Errorf("processed %v, want %v", processed, want)
	}
}

// TestRunWatch runs the watcher on a real directory.
func TestRunWatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.writeInput(t, "existing.txt", sampleReport)

	cfg := config.NewConfig()
	cfg.Inputs = []string{env.inputDir}
	cfg.OutputDir = env.outputDir
	cfg.SaveHistory = false
	cfg.WatchSettleDelay = 50 * time.Millisecond

	var stdout bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, &stdout, cfg, env.inputDir, true, discardLogger())
	}()

	waitForFile := func(path string) {
		t.Helper()
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			if _, err := os.Stat(path); err == nil {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		cancel()
		t.Fatalf("timed out waiting for %s", path)
	}

	// The existing file is queued after the watcher is registered, so once
	// its workbook appears new files are observed too.
	waitForFile(filepath.Join(env.outputDir, "existing.xlsx"))

	env.writeInput(t, "dropped.txt", sampleReport)
	waitForFile(filepath.Join(env.outputDir, "dropped.xlsx"))

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("runWatch() error = %v", err)
	}
	if got := strings.Count(stdout.String(), "IOC REPORT:"); got != 2 {
		t.Errorf("expected two reports, got %d", got)
	}
}
