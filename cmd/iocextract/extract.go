package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/iocextract/internal/config"
	"github.com/nao1215/iocextract/internal/model"
	"github.com/nao1215/iocextract/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract indicators of compromise from documents",
		Long: `Extract reads each document, finds indicators of compromise in its text
and writes them to <name>.xlsx, one column per indicator type.

Obfuscated indicators are recognized in both their raw and cleaned form:
hxxp:// becomes http://, [.] and (dot) become ".", [at] becomes "@".

Supported inputs are PDF documents, HTML pages and plain text files.
Files are processed one after another; the first failure stops the run.

Examples:
  # Extract IOCs from a report into the desktop "IOCs Extractor" folder
  iocextract extract apt-report.pdf

  # Write the spreadsheet to another directory
  iocextract extract -o ./iocs apt-report.pdf

  # Print a Markdown summary with defanged indicators
  iocextract extract --markdown --defang apt-report.pdf

  # Print the result as JSON without recording it in the history
  iocextract extract --json --no-history apt-report.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtractCmd,
	}

	addOutputFlags(cmd)

	return cmd
}

// addOutputFlags adds the flags shared by extract and watch.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "o", "",
		"Directory for the spreadsheets (default: \"IOCs Extractor\" on the desktop)")
	cmd.Flags().BoolP("json", "j", false,
		"Print the report as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the report as Markdown (mutually exclusive with --json)")
	cmd.Flags().Bool("defang", false,
		"Print indicators in defanged form (hxxp://, [.])")
	cmd.Flags().Bool("no-history", false,
		"Do not record the run in the history database")
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closer, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	if err := runExtract(ctx, cmd.OutOrStdout(), cfg, logger); err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	return nil
}

// runExtract processes cfg.Inputs and prints a report for each run.
func runExtract(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	writer, err := newReportWriter(cfg, out)
	if err != nil {
		return err
	}

	processor, cleanup := newProcessor(cfg, logger)
	defer cleanup()

	var writeErr error
	_, err = processor.ProcessFiles(ctx, cfg.Inputs, func(run *model.Run, _ int) {
		if _, err := writer.Write(run); err != nil && writeErr == nil {
			writeErr = fmt.Errorf("failed to write report: %w", err)
		}
	})
	if err != nil {
		return err
	}
	return writeErr
}

// newProcessor creates the batch processor for cfg. History problems are
// logged and disable recording; they never fail an extraction. The
// returned cleanup closes the history database.
func newProcessor(cfg *config.Config, logger *slog.Logger) (*pipeline.BatchProcessor, func()) {
	var recorder pipeline.RunRecorder
	cleanup := func() {}

	if cfg.SaveHistory {
		db, err := openHistory(cfg)
		if err != nil {
			logger.Warn("run history disabled", "error", err)
		} else {
			recorder = db
			cleanup = func() {
				if err := db.Close(); err != nil {
					logger.Warn("failed to close history database", "error", err)
				}
			}
		}
	}

	factory := func() *pipeline.Pipeline {
		return pipeline.DefaultPipeline(
			cfg.OutputDir,
			[]pipeline.Option{pipeline.WithLogger(logger)},
			pipeline.WithPipelineRecorder(recorder),
		)
	}

	return pipeline.NewBatchProcessor(factory, pipeline.WithBatchLogger(logger)), cleanup
}
