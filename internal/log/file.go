package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures the rotating log file.
type FileOptions struct {
	// Path is the log file. Empty disables file logging.
	Path string

	// MaxSizeMB is the size in megabytes at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int

	// Compress gzips rotated files.
	Compress bool
}

// Options configures New.
type Options struct {
	// Console receives text logs. Defaults to os.Stderr.
	Console io.Writer

	// Verbose lowers the console level from Warn to Debug.
	Verbose bool

	// File adds a JSON log file. The file always records Info and above,
	// and Debug too when Verbose is set.
	File FileOptions
}

// nopCloser is returned when there is no file to close.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates the application logger. The returned io.Closer flushes and
// closes the log file and must be called before exit; it is a no-op when
// no file is configured.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level(opts.Verbose)})

	if opts.File.Path == "" {
		return slog.New(NewDefangHandler(consoleHandler)), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File.Path), 0o750); err != nil {
		return nil, nil, err
	}
	file := &lumberjack.Logger{
		Filename:   opts.File.Path,
		MaxSize:    opts.File.MaxSizeMB,
		MaxBackups: opts.File.MaxBackups,
		MaxAge:     opts.File.MaxAgeDays,
		Compress:   opts.File.Compress,
	}

	fileLevel := slog.LevelInfo
	if opts.Verbose {
		fileLevel = slog.LevelDebug
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: fileLevel})

	handler := NewDefangHandler(&fanoutHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
	return slog.New(handler), file, nil
}

// fanoutHandler passes each record to every handler enabled for its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: handlers}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: handlers}
}
