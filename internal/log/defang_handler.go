package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nao1215/iocextract/internal/ioc"
)

// indicatorKeys contains attribute keys whose values are always defanged.
var indicatorKeys = map[string]bool{
	"ioc":        true,
	"iocs":       true,
	"indicator":  true,
	"indicators": true,
	"url":        true,
	"urls":       true,
	"domain":     true,
	"domains":    true,
	"host":       true,
	"ip":         true,
	"ipv4":       true,
	"ipv6":       true,
	"email":      true,
	"emails":     true,
	"match":      true,
	"value":      true,
}

// liveURLPattern matches a clickable URL anywhere in a value.
var liveURLPattern = regexp.MustCompile(`(?i)\bhttps?://`)

// DefangHandler wraps an slog.Handler and defangs indicator values.
// It intercepts log records and rewrites attribute values that are keyed
// as indicators or contain live URLs before passing them to the
// underlying handler. The message itself is left untouched; indicators
// belong in attributes.
type DefangHandler struct {
	// handler is the underlying slog handler that receives defanged records.
	handler slog.Handler
}

// NewDefangHandler creates a new DefangHandler wrapping the given handler.
// If handler is nil, the returned DefangHandler will use slog.Default().Handler().
func NewDefangHandler(handler slog.Handler) *DefangHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &DefangHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *DefangHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle defangs the record's attributes and passes it to the underlying handler.
func (h *DefangHandler) Handle(ctx context.Context, r slog.Record) error {
	defanged := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		defanged.AddAttrs(defangAttr(a))
		return true
	})

	return h.handler.Handle(ctx, defanged)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are defanged before being added.
func (h *DefangHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	defanged := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		defanged[i] = defangAttr(a)
	}
	return &DefangHandler{handler: h.handler.WithAttrs(defanged)}
}

// WithGroup returns a new handler with the given group name.
func (h *DefangHandler) WithGroup(name string) slog.Handler {
	return &DefangHandler{handler: h.handler.WithGroup(name)}
}

// defangAttr defangs a single attribute, recursively handling groups.
func defangAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		defanged := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			defanged[i] = defangAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(defanged...)}

	case slog.KindString:
		v := a.Value.String()
		if isIndicatorKey(a.Key) || liveURLPattern.MatchString(v) {
			return slog.String(a.Key, ioc.Defang(v))
		}

	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			if msg := err.Error(); liveURLPattern.MatchString(msg) {
				return slog.String(a.Key, ioc.Defang(msg))
			}
			return a
		}
		values, ok := a.Value.Any().([]string)
		if !ok {
			return a
		}
		if !isIndicatorKey(a.Key) && !anyLiveURL(values) {
			return a
		}
		defanged := make([]string, len(values))
		for i, v := range values {
			defanged[i] = ioc.Defang(v)
		}
		return slog.Any(a.Key, defanged)
	}

	return a
}

// isIndicatorKey reports whether key names an indicator attribute.
func isIndicatorKey(key string) bool {
	return indicatorKeys[strings.ToLower(key)]
}

func anyLiveURL(values []string) bool {
	for _, v := range values {
		if liveURLPattern.MatchString(v) {
			return true
		}
	}
	return false
}

// level returns the handler level for the verbose setting.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewDefangLogger creates a new slog.Logger writing text to w with
// indicator values defanged.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewDefangLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level(verbose),
	}
	return slog.New(NewDefangHandler(slog.NewTextHandler(w, opts)))
}

// NewDefangJSONLogger creates a new slog.Logger writing JSON to w with
// indicator values defanged. Useful for structured log aggregation.
func NewDefangJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level(verbose),
	}
	return slog.New(NewDefangHandler(slog.NewJSONHandler(w, opts)))
}
