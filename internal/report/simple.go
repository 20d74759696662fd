package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/iocextract/internal/ioc"
	"github.com/nao1215/iocextract/internal/model"
)

// lineWidth is the width of the section rules.
const lineWidth = 70

// timeLayout formats timestamps in text and Markdown reports.
const timeLayout = "2006-01-02 15:04:05 MST"

// SimpleWriter outputs human-readable text reports.
// Values are listed per category; empty categories are skipped unless
// WithShowEmpty is set.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty categories are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty categories.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithDefang prints indicators in defanged form.
func WithDefang(defang bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.defang = defang
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result of one run.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeRule(&sb, "=")
	sb.WriteString(fmt.Sprintf("IOC REPORT: %s\n", run.Source))
	w.writeRule(&sb, "=")
	sb.WriteString("\n")

	w.writeDocument(&sb, run)

	set := setOrEmpty(run.IOCs)
	w.writeSection(&sb, "SUMMARY")
	for _, c := range ioc.Categories {
		sb.WriteString(fmt.Sprintf("  %-8s %d\n", c, set.Len(c)))
	}
	sb.WriteString(fmt.Sprintf("  %-8s %d\n\n", "TOTAL", set.Total()))

	if !set.IsEmpty() || w.showEmpty {
		w.writeSection(&sb, "INDICATORS")
		w.writeSet(&sb, set, "*")
	}

	return io.WriteString(w.output, sb.String())
}

// writeDocument writes the properties of the processed document.
func (w *SimpleWriter) writeDocument(sb *strings.Builder, run *model.Run) {
	if run.Document != nil {
		doc := run.Document
		sb.WriteString(fmt.Sprintf("Document:   %s\n", doc.Path))
		sb.WriteString(fmt.Sprintf("Pages:      %d\n", doc.Pages))
		if doc.Metadata.Title != "" {
			sb.WriteString(fmt.Sprintf("Title:      %s\n", doc.Metadata.Title))
		}
		if doc.Metadata.Author != "" {
			sb.WriteString(fmt.Sprintf("Author:     %s\n", doc.Metadata.Author))
		}
		if doc.Hash != "" {
			sb.WriteString(fmt.Sprintf("SHA-256:    %s\n", doc.Hash))
		}
	}
	if run.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Output:     %s\n", run.OutputPath))
	}
	if run.ID != 0 {
		sb.WriteString(fmt.Sprintf("Run ID:     %d\n", run.ID))
	}
	sb.WriteString(fmt.Sprintf("Processed:  %s\n\n", run.ProcessedAt.Format(timeLayout)))
}

// writeSet lists the values of every category, each line prefixed by mark.
func (w *SimpleWriter) writeSet(sb *strings.Builder, set *ioc.Set, mark string) {
	for _, c := range ioc.Categories {
		values := set.Values(c)
		if len(values) == 0 && !w.showEmpty {
			continue
		}
		sb.WriteString(fmt.Sprintf("[%s] %d\n", c, len(values)))
		for _, v := range values {
			sb.WriteString(fmt.Sprintf("  %s %s\n", mark, w.value(v)))
		}
		sb.WriteString("\n")
	}
}

// WriteComparison outputs the changes between two runs.
func (w *SimpleWriter) WriteComparison(c *model.Comparison) (int, error) {
	var sb strings.Builder

	w.writeRule(&sb, "=")
	sb.WriteString("IOC COMPARISON\n")
	w.writeRule(&sb, "=")
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Old: #%d %s (%s)\n", c.Old.ID, c.Old.Source, c.Old.ProcessedAt.Format(timeLayout)))
	sb.WriteString(fmt.Sprintf("New: #%d %s (%s)\n\n", c.New.ID, c.New.Source, c.New.ProcessedAt.Format(timeLayout)))

	sb.WriteString(fmt.Sprintf("  Added:     %d\n", c.Added.Total()))
	sb.WriteString(fmt.Sprintf("  Removed:   %d\n", c.Removed.Total()))
	sb.WriteString(fmt.Sprintf("  Unchanged: %d\n\n", c.Unchanged()))

	if !c.HasChanges() {
		sb.WriteString("No changes.\n")
		return io.WriteString(w.output, sb.String())
	}

	if !c.Added.IsEmpty() {
		w.writeSection(&sb, "ADDED")
		w.writeSet(&sb, c.Added, "+")
	}
	if !c.Removed.IsEmpty() {
		w.writeSection(&sb, "REMOVED")
		w.writeSet(&sb, c.Removed, "-")
	}

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs one line per run, newest first.
func (w *SimpleWriter) WriteHistory(runs []model.RunSummary) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s  %-23s  %6s  %s\n", "ID", "PROCESSED", "IOCS", "SOURCE"))
	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("%-6d  %-23s  %6d  %s\n",
			r.ID, r.ProcessedAt.Local().Format(timeLayout), r.Total, r.Source))
	}
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, lineWidth))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	w.writeRule(sb, "-")
	sb.WriteString(title)
	sb.WriteString("\n")
	w.writeRule(sb, "-")
	sb.WriteString("\n")
}
