package report

import (
	"fmt"
	"io"

	"github.com/nao1215/iocextract/internal/ioc"
	"github.com/nao1215/iocextract/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the result of one run.
	Write(run *model.Run) (int, error)

	// WriteComparison outputs the indicator changes between two runs.
	WriteComparison(c *model.Comparison) (int, error)

	// WriteHistory outputs a listing of stored runs.
	WriteHistory(runs []model.RunSummary) (int, error)
}

// Format selects a Writer implementation.
type Format string

const (
	// FormatText is the human-readable default.
	FormatText Format = "text"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatMarkdown is GitHub-flavored Markdown.
	FormatMarkdown Format = "markdown"
)

// NewWriter returns the writer for format. When defang is true the text and
// Markdown writers print indicators in defanged form; JSON output always
// carries the values as extracted.
func NewWriter(format Format, output io.Writer, defang bool) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewSimpleWriter(output, WithDefang(defang)), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output, WithMarkdownDefang(defang)), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer

	// defang prints indicators in non-clickable form.
	defang bool
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// value formats an indicator for display.
func (b baseWriter) value(v string) string {
	if b.defang {
		return ioc.Defang(v)
	}
	return v
}

// setOrEmpty returns s, or an empty set when s is nil.
func setOrEmpty(s *ioc.Set) *ioc.Set {
	if s == nil {
		return ioc.NewSet()
	}
	return s
}
