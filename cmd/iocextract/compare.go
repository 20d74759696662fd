package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nao1215/iocextract/internal/database"
	"github.com/nao1215/iocextract/internal/model"
	"github.com/spf13/cobra"
)

// NewCompareCmd creates the compare command.
// This command compares the indicators of two runs stored in the history.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [ID-OLD ID-NEW]",
		Short: "Compare the indicators of two runs",
		Long: `Compare shows which indicators were added and which were removed between
two runs recorded in the history database.

Pass two run IDs (see 'iocextract history'), or use --source to compare
the two most recent runs of the same document, for example after a
vendor published an updated version of a report.

Examples:
  # Compare run 3 with run 7
  iocextract compare 3 7

  # Compare the latest two runs of a document
  iocextract compare --source apt-report.pdf

  # Output the comparison in Markdown format
  iocextract compare --markdown 3 7`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected two run IDs, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: runCompareCmd,
	}

	cmd.Flags().StringP("source", "s", "",
		"Compare the two most recent runs of this document name")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.Flags().Bool("defang", false,
		"Print indicators in defanged form")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	source, err := cmd.Flags().GetString("source")
	if err != nil {
		return err
	}

	// Validate arguments before opening database
	var oldID, newID int64
	switch {
	case len(args) == 2 && source != "":
		return errors.New("use either two run IDs or --source, not both")
	case len(args) == 2:
		if oldID, err = parseRunID(args[0]); err != nil {
			return err
		}
		if newID, err = parseRunID(args[1]); err != nil {
			return err
		}
	case source == "":
		return errors.New("specify two run IDs or --source (use 'iocextract history' to see run IDs)")
	}

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

	var comparison *model.Comparison
	if source != "" {
		comparison, err = compareLatest(ctx, db, source)
	} else {
		comparison, err = compareRuns(ctx, db, oldID, newID)
	}
	if err != nil {
		return err
	}

	writer, err := newReportWriter(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = writer.WriteComparison(comparison)
	return err
}

// parseRunID parses a run ID argument.
func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run ID %q: must be a positive integer", s)
	}
	return id, nil
}

// compareRuns compares two runs by ID.
func compareRuns(ctx context.Context, db *database.HistoryDB, oldID, newID int64) (*model.Comparison, error) {
	oldRun, err := db.GetRunByID(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newRun, err := db.GetRunByID(ctx, newID)
	if err != nil {
		return nil, err
	}
	return model.NewComparison(oldRun, newRun), nil
}

// compareLatest compares the two most recent runs of source.
func compareLatest(ctx context.Context, db *database.HistoryDB, source string) (*model.Comparison, error) {
	runs, err := db.LatestRuns(ctx, source, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) < 2 {
		return nil, fmt.Errorf("need at least two runs of %s to compare, found %d", source, len(runs))
	}
	// LatestRuns is newest first
	return model.NewComparison(runs[1], runs[0]), nil
}
