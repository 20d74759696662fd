package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/iocextract/internal/model"
)

// BatchProcessor runs a pipeline over several input files, one after
// another, stopping at the first failure.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file.
	pipelineFactory func() *Pipeline

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Process runs the pipeline on one file and returns its run. The run is
// returned even on failure so callers can report how far it got.
func (bp *BatchProcessor) Process(ctx context.Context, path string) (*model.Run, error) {
	run := model.NewRun(path)
	start := time.Now()

	if err := bp.pipelineFactory().Execute(ctx, run); err != nil {
		return run, err
	}

	bp.logger.Info("document processed",
		"source", run.Source,
		"iocs", run.Total(),
		"output", run.OutputPath,
		"elapsed", time.Since(start),
	)
	return run, nil
}

// ProcessFiles processes paths in order and calls callback after each
// successful run. It stops at the first failure and returns the runs
// completed so far together with the error.
func (bp *BatchProcessor) ProcessFiles(
	ctx context.Context,
	paths []string,
	callback func(run *model.Run, index int),
) ([]*model.Run, error) {
	runs := make([]*model.Run, 0, len(paths))

	for i, path := range paths {
		bp.logger.Debug("processing document",
			"path", path,
			"index", i+1,
			"total", len(paths),
		)

		run, err := bp.Process(ctx, path)
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)

		if callback != nil {
			callback(run, i)
		}
	}

	return runs, nil
}
