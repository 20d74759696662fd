package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/iocextract/internal/model"
)

// JSONWriter outputs reports in JSON format.
// Values are written as extracted; defanging is left to the consumer.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// runJSON is the JSON document for one run.
type runJSON struct {
	*model.Run

	// Total duplicates the indicator count for consumers that do not
	// want to sum the arrays.
	Total int `json:"total"`
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	if run.IOCs == nil {
		copied := *run
		copied.IOCs = setOrEmpty(nil)
		run = &copied
	}
	return w.writeJSON(runJSON{Run: run, Total: run.Total()})
}

// comparisonJSON is the JSON document for a comparison. Only the identity
// of the compared runs is included, not their full indicator sets.
type comparisonJSON struct {
	Old       model.RunSummary `json:"old"`
	New       model.RunSummary `json:"new"`
	Added     any              `json:"added"`
	Removed   any              `json:"removed"`
	Unchanged int              `json:"unchanged"`
}

// WriteComparison outputs the comparison in JSON format.
func (w *JSONWriter) WriteComparison(c *model.Comparison) (int, error) {
	return w.writeJSON(comparisonJSON{
		Old:       c.Old.Summary(),
		New:       c.New.Summary(),
		Added:     c.Added,
		Removed:   c.Removed,
		Unchanged: c.Unchanged(),
	})
}

// WriteHistory outputs the run listing as a JSON array.
func (w *JSONWriter) WriteHistory(runs []model.RunSummary) (int, error) {
	if runs == nil {
		runs = []model.RunSummary{}
	}
	return w.writeJSON(runs)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
