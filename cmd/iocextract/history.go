package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/iocextract/internal/config"
	"github.com/nao1215/iocextract/internal/database"
	"github.com/nao1215/iocextract/internal/ioc"
	"github.com/nao1215/iocextract/internal/report"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and search previous extractions",
		Long: `History shows the runs recorded in the local history database.

Every extract and watch run stores the document name, the spreadsheet path
and all indicators found. History lists those runs, prints the indicators
of one run, or finds every run that contained a given indicator.

Examples:
  # List the 20 most recent runs
  iocextract history

  # Show the indicators of run 12
  iocextract history --show 12

  # Find every report that mentioned an indicator (defanged input works too)
  iocextract history --search "hxxp://bad[.]example[.]com"

  # Delete run 12
  iocextract history --delete 12`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Int64P("show", "s", 0,
		"Print the indicators of the run with this ID")
	cmd.Flags().StringP("search", "f", "",
		"List the runs that contained this indicator")
	cmd.Flags().Int64("delete", 0,
		"Delete the run with this ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")
	cmd.Flags().Bool("defang", false,
		"Print indicators in defanged form")

	cmd.MarkFlagsMutuallyExclusive("show", "search", "delete")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch {
	case flagChanged(cmd, "show"):
		id, err := cmd.Flags().GetInt64("show")
		if err != nil {
			return err
		}
		return showRun(ctx, out, cfg, db, id)

	case flagChanged(cmd, "search"):
		value, err := cmd.Flags().GetString("search")
		if err != nil {
			return err
		}
		return searchIndicator(ctx, out, cfg, db, value)

	case flagChanged(cmd, "delete"):
		id, err := cmd.Flags().GetInt64("delete")
		if err != nil {
			return err
		}
		if err := db.DeleteRun(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted run %d\n", id)
		return nil
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return listRuns(ctx, out, cfg, db, limit)
}

// listRuns prints the most recent runs.
func listRuns(ctx context.Context, out io.Writer, cfg *config.Config, db *database.HistoryDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	writer, err := newReportWriter(cfg, out)
	if err != nil {
		return err
	}
	_, err = writer.WriteHistory(runs)
	return err
}

// showRun prints the full report of one stored run.
func showRun(ctx context.Context, out io.Writer, cfg *config.Config, db *database.HistoryDB, id int64) error {
	run, err := db.GetRunByID(ctx, id)
	if err != nil {
		return err
	}

	writer, err := newReportWriter(cfg, out)
	if err != nil {
		return err
	}
	_, err = writer.Write(run)
	return err
}

// searchIndicator prints every stored occurrence of value.
func searchIndicator(ctx context.Context, out io.Writer, cfg *config.Config, db *database.HistoryDB, value string) error {
	hits, err := db.FindIndicator(ctx, value)
	if err != nil {
		return err
	}

	switch reportFormat(cfg) {
	case report.FormatJSON:
		return outputHitsJSON(out, hits)
	case report.FormatMarkdown:
		return outputHitsMarkdown(out, hits, value, cfg.Defang)
	default:
		return outputHitsText(out, hits, value, cfg.Defang)
	}
}

// outputHitsJSON writes the hits as a JSON array.
func outputHitsJSON(out io.Writer, hits []database.IndicatorHit) error {
	if hits == nil {
		hits = []database.IndicatorHit{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(hits)
}

// outputHitsText writes one line per hit.
func outputHitsText(out io.Writer, hits []database.IndicatorHit, value string, defang bool) error {
	if len(hits) == 0 {
		_, err := fmt.Fprintf(out, "%s was not found in any run.\n", displayValue(value, defang))
		return err
	}

	if _, err := fmt.Fprintf(out, "%-6s  %-23s  %-8s  %s\n", "RUN", "PROCESSED", "CATEGORY", "SOURCE"); err != nil {
		return err
	}
	for _, h := range hits {
		if _, err := fmt.Fprintf(out, "%-6d  %-23s  %-8s  %s\n",
			h.RunID, h.ProcessedAt.Local().Format(timeLayout), h.Category, h.Source); err != nil {
			return err
		}
	}
	return nil
}

// outputHitsMarkdown writes the hits as a Markdown table.
func outputHitsMarkdown(out io.Writer, hits []database.IndicatorHit, value string, defang bool) error {
	md := markdown.NewMarkdown(out)
	md.H1("Indicator Search")
	md.PlainText("")
	md.PlainTextf("Indicator: `%s`", displayValue(value, defang))
	md.PlainText("")

	if len(hits) == 0 {
		md.Note("The indicator was not found in any run.")
		return md.Build()
	}

	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []string{
			strconv.FormatInt(h.RunID, 10),
			h.ProcessedAt.Local().Format(timeLayout),
			h.Category.String(),
			h.Source,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "Processed", "Category", "Source"},
		Rows:   rows,
	})
	return md.Build()
}

// timeLayout formats timestamps in command output.
const timeLayout = "2006-01-02 15:04:05 MST"

// displayValue returns value in the form the user asked for.
func displayValue(value string, defang bool) string {
	if defang {
		return ioc.Defang(ioc.Deobfuscate(value))
	}
	return value
}
