package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Config.ApplyFile() and
// provide specific information about what is wrong with the configuration.
// Callers use errors.Is() to tell them apart.
var (
	// ErrNoInput is returned when no input document is specified.
	ErrNoInput = errors.New("no input specified: provide one or more document paths")

	// ErrNoOutputDir is returned when the output directory resolves to an
	// empty path, which happens when no desktop directory can be determined
	// and --output-dir is not given.
	ErrNoOutputDir = errors.New("no output directory: use --output-dir")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidReportFormat is returned when the configuration file names
	// a report format other than text, json or markdown.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, json or markdown")

	// ErrInvalidSettleDelay is returned when the watch settle delay is negative
	// or cannot be parsed.
	ErrInvalidSettleDelay = errors.New("invalid settle delay: must be a non-negative duration")

	// ErrInvalidLogRotation is returned when a log rotation limit is negative.
	ErrInvalidLogRotation = errors.New("invalid log rotation: limits must be non-negative")
)
