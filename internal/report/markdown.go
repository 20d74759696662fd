package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/iocextract/internal/ioc"
	"github.com/nao1215/iocextract/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
// Reports carry tables, a mermaid pie chart of the category counts and
// alert blocks, so they can be pasted into an issue or wiki page as is.
type MarkdownWriter struct {
	baseWriter
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownDefang prints indicators in defanged form.
func WithMarkdownDefang(defang bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.defang = defang
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)
	set := setOrEmpty(run.IOCs)

	md.H1("IOC Report: " + run.Source)
	md.PlainText("")

	w.writeProperties(md, run)
	w.writeAlert(md, run, set)
	w.writeSummary(md, set)
	if !set.IsEmpty() {
		w.writePieChart(md, "Indicators by Category", set)
	}
	w.writeIndicators(md, "Indicators", set)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeProperties writes the document and run properties table.
func (w *MarkdownWriter) writeProperties(md *markdown.Markdown, run *model.Run) {
	rows := [][]string{
		{"Source", run.Source},
		{"Processed", run.ProcessedAt.Format(timeLayout)},
	}
	if run.ID != 0 {
		rows = append(rows, []string{"Run ID", strconv.FormatInt(run.ID, 10)})
	}
	if run.OutputPath != "" {
		rows = append(rows, []string{"Spreadsheet", "`" + run.OutputPath + "`"})
	}
	if doc := run.Document; doc != nil {
		rows = append(rows, []string{"Pages", strconv.Itoa(doc.Pages)})
		if doc.Metadata.Title != "" {
			rows = append(rows, []string{"Title", doc.Metadata.Title})
		}
		if doc.Metadata.Author != "" {
			rows = append(rows, []string{"Author", doc.Metadata.Author})
		}
		if doc.Hash != "" {
			rows = append(rows, []string{"SHA-256", "`" + doc.Hash + "`"})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes a note about the overall result.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.Run, set *ioc.Set) {
	switch {
	case set.IsEmpty():
		md.Note("No indicators of compromise were found in this document.")
	default:
		md.Importantf("%d indicators of compromise found.", set.Total())
	}
	md.PlainText("")
}

// writeSummary writes the per-category count table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, set *ioc.Set) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(ioc.Categories)+1)
	for _, c := range ioc.Categories {
		rows = append(rows, []string{c.String(), strconv.Itoa(set.Len(c))})
	}
	rows = append(rows, []string{"**Total**", fmt.Sprintf("**%d**", set.Total())})

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the non-empty categories.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, title string, set *ioc.Set) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(title),
		piechart.WithShowData(true),
	)
	for _, c := range ioc.Categories {
		if n := set.Len(c); n > 0 {
			chart.LabelAndIntValue(c.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeIndicators writes one section per non-empty category.
func (w *MarkdownWriter) writeIndicators(md *markdown.Markdown, title string, set *ioc.Set) {
	if set.IsEmpty() {
		return
	}
	md.H2(title)
	md.PlainText("")

	for _, c := range ioc.Categories {
		values := set.Values(c)
		if len(values) == 0 {
			continue
		}
		md.H3(fmt.Sprintf("%s (%d)", c, len(values)))
		md.PlainText("")
		items := make([]string, len(values))
		for i, v := range values {
			items[i] = "`" + w.value(v) + "`"
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// WriteComparison outputs the comparison in Markdown format.
func (w *MarkdownWriter) WriteComparison(c *model.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("IOC Comparison")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"", "Run ID", "Source", "Processed", "IOCs"},
		Rows: [][]string{
			{"Old", strconv.FormatInt(c.Old.ID, 10), c.Old.Source, c.Old.ProcessedAt.Format(timeLayout), strconv.Itoa(c.Old.Total())},
			{"New", strconv.FormatInt(c.New.ID, 10), c.New.Source, c.New.ProcessedAt.Format(timeLayout), strconv.Itoa(c.New.Total())},
		},
	})
	md.PlainText("")

	if !c.HasChanges() {
		md.Tip("No indicators were added or removed.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	md.Importantf("%d added, %d removed, %d unchanged.",
		c.Added.Total(), c.Removed.Total(), c.Unchanged())
	md.PlainText("")

	w.writeIndicators(md, "Added", c.Added)
	w.writeIndicators(md, "Removed", c.Removed)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteHistory outputs the run listing as a table.
func (w *MarkdownWriter) WriteHistory(runs []model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Extraction History")
	md.PlainText("")

	if len(runs) == 0 {
		md.Note("No runs recorded.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.ProcessedAt.Format(timeLayout),
			r.Source,
			strconv.Itoa(r.Total),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Processed", "Source", "IOCs"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [iocextract](https://github.com/nao1215/iocextract)*")
}
