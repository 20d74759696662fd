package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/iocextract/internal/document"
	"github.com/nao1215/iocextract/internal/export"
	"github.com/nao1215/iocextract/internal/ioc"
	"github.com/nao1215/iocextract/internal/model"
)

// Step names as recorded in model.Run.Steps.
const (
	StepAcquire = "acquire"
	StepExtract = "extract"
	StepExport  = "export"
	StepRecord  = "record"
)

// errNoDocument is returned by steps that run before acquisition.
var errNoDocument = errors.New("no document acquired")

// AcquireStep loads the input file named by run.Document.Path.
type AcquireStep struct {
	registry *document.Registry
	logger   *slog.Logger
}

// AcquireStepOption configures an AcquireStep.
type AcquireStepOption func(*AcquireStep)

// WithAcquireLogger sets a custom logger for the acquire step.
func WithAcquireLogger(logger *slog.Logger) AcquireStepOption {
	return func(s *AcquireStep) {
		s.logger = logger
	}
}

// NewAcquireStep creates an acquire step reading through registry.
func NewAcquireStep(registry *document.Registry, opts ...AcquireStepOption) *AcquireStep {
	s := &AcquireStep{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *AcquireStep) Name() string {
	return StepAcquire
}

// Do replaces run.Document with the loaded document.
func (s *AcquireStep) Do(ctx context.Context, run *model.Run) error {
	if run.Document == nil || run.Document.Path == "" {
		return fmt.Errorf("%w: no input path", ErrAcquire)
	}

	doc, err := s.registry.Load(ctx, run.Document.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAcquire, err)
	}
	s.logger.Debug("document acquired",
		"source", run.Source,
		"format", doc.Format,
		"pages", doc.Pages,
		"chars", len(doc.Text),
	)

	run.Document = doc
	return nil
}

// ExtractStep finds indicators in the acquired text.
type ExtractStep struct {
	logger *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractLogger sets a custom logger for the extract step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates an extract step.
func NewExtractStep(opts ...ExtractStepOption) *ExtractStep {
	s := &ExtractStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return StepExtract
}

// Do sets run.IOCs from run.Document.Text.
func (s *ExtractStep) Do(ctx context.Context, run *model.Run) error {
	if run.Document == nil {
		return fmt.Errorf("%w: %w", ErrExtract, errNoDocument)
	}
	run.IOCs = ioc.Extract(run.Document.Text)

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		for _, c := range ioc.Categories {
			if values := run.IOCs.Values(c); len(values) > 0 {
				s.logger.Debug("indicators found",
					"source", run.Source,
					"category", c,
					"iocs", values,
				)
			}
		}
	}
	return nil
}

// ExportStep writes the indicators of a run to an .xlsx file.
type ExportStep struct {
	writer *export.XLSXWriter
	dir    string
	logger *slog.Logger
}

// ExportStepOption configures an ExportStep.
type ExportStepOption func(*ExportStep)

// WithExportWriter sets the workbook writer.
func WithExportWriter(w *export.XLSXWriter) ExportStepOption {
	return func(s *ExportStep) {
		s.writer = w
	}
}

// WithExportLogger sets a custom logger for the export step.
func WithExportLogger(logger *slog.Logger) ExportStepOption {
	return func(s *ExportStep) {
		s.logger = logger
	}
}

// NewExportStep creates an export step writing into dir.
func NewExportStep(dir string, opts ...ExportStepOption) *ExportStep {
	s := &ExportStep{
		writer: export.NewXLSXWriter(),
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return StepExport
}

// Do creates the output directory if needed, writes the workbook and sets
// run.OutputPath.
func (s *ExportStep) Do(_ context.Context, run *model.Run) error {
	if run.Document == nil {
		return fmt.Errorf("%w: %w", ErrExport, errNoDocument)
	}
	if run.IOCs == nil {
		run.IOCs = ioc.NewSet()
	}

	if err := export.EnsureDir(s.dir); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}

	path := export.OutputPath(s.dir, run.Document.Path)
	table := export.NewTable(run.IOCs)
	table.Title = run.Source
	if err := s.writer.WriteFile(path, table); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}

	s.logger.Debug("workbook written",
		"source", run.Source,
		"path", path,
		"rows", len(table.Rows),
	)
	run.OutputPath = path
	return nil
}

// RunRecorder stores completed runs.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *model.Run) (int64, error)
}

// RecordStep saves the run to the history database. A failure to save is
// logged and never fails the pipeline: the spreadsheet is already written.
type RecordStep struct {
	recorder RunRecorder
	logger   *slog.Logger
}

// NewRecordStep creates a record step. logger may be nil.
func NewRecordStep(recorder RunRecorder, logger *slog.Logger) *RecordStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStep{recorder: recorder, logger: logger}
}

// Name returns the step name.
func (s *RecordStep) Name() string {
	return StepRecord
}

// Do saves run and sets run.ID.
func (s *RecordStep) Do(ctx context.Context, run *model.Run) error {
	// The step is recorded before saving so the stored run lists it.
	saved := *run
	saved.Steps = append(append([]string(nil), run.Steps...), s.Name())

	id, err := s.recorder.SaveRun(ctx, &saved)
	if err != nil {
		s.logger.Warn("failed to save run history",
			"source", run.Source,
			"error", err,
		)
		return nil
	}
	run.ID = id
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// OutputDir is the directory receiving the workbooks.
	OutputDir string

	// Registry selects document readers. Nil means document.NewRegistry().
	Registry *document.Registry

	// Writer renders workbooks. Nil means export.NewXLSXWriter().
	Writer *export.XLSXWriter

	// Recorder stores runs. Nil disables history.
	Recorder RunRecorder
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineRegistry sets the document registry.
func WithPipelineRegistry(reg *document.Registry) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Registry = reg
	}
}

// WithPipelineWriter sets the workbook writer.
func WithPipelineWriter(w *export.XLSXWriter) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Writer = w
	}
}

// WithPipelineRecorder enables the record step.
func WithPipelineRecorder(r RunRecorder) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Recorder = r
	}
}

// DefaultPipeline creates the acquire, extract, export (and, with a
// recorder, record) pipeline writing workbooks into outputDir.
func DefaultPipeline(outputDir string, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{OutputDir: outputDir}
	for _, opt := range configOpts {
		opt(cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = document.NewRegistry()
	}
	if cfg.Writer == nil {
		cfg.Writer = export.NewXLSXWriter()
	}

	p.AddSteps(
		NewAcquireStep(cfg.Registry, WithAcquireLogger(p.logger)),
		NewExtractStep(WithExtractLogger(p.logger)),
		NewExportStep(cfg.OutputDir,
			WithExportWriter(cfg.Writer),
			WithExportLogger(p.logger),
		),
	)
	if cfg.Recorder != nil {
		p.AddStep(NewRecordStep(cfg.Recorder, p.logger))
	}

	return p
}
