package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "iocextract"

	// OutputFolderName is the folder created under the desktop directory
	// that receives the spreadsheets.
	OutputFolderName = "IOCs Extractor"

	// DefaultWatchSettleDelay is how long a file in a watched directory must
	// stay unchanged before it is processed. Report generators and browsers
	// write PDFs in several chunks; two seconds covers the common cases
	// without making the watcher feel slow.
	DefaultWatchSettleDelay = 2 * time.Second

	// DefaultHistoryLimit is the number of runs listed by the history command.
	DefaultHistoryLimit = 20

	// DefaultLogMaxSizeMB is the size at which the log file is rotated.
	DefaultLogMaxSizeMB = 10

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 3

	// DefaultLogMaxAgeDays is the number of days rotated log files are kept.
	DefaultLogMaxAgeDays = 28
)

// Report format names accepted by the configuration file.
const (
	ReportText     = "text"
	ReportJSON     = "json"
	ReportMarkdown = "markdown"
)

// Config holds the settings for one invocation of iocextract.
// It is built from defaults, then the configuration file, then flags.
type Config struct {
	// Inputs are the documents (or, for watch, the directory) to process.
	Inputs []string

	// OutputDir is the directory that receives the spreadsheets.
	// Defaults to "IOCs Extractor" under the user's desktop directory.
	OutputDir string

	// ConfigFilePath is the path given with --config, if any.
	ConfigFilePath string

	// JSONReport prints the run report as JSON.
	JSONReport bool

	// MarkdownReport prints the run report as Markdown.
	MarkdownReport bool

	// Defang prints indicators in the report in non-clickable form.
	// The spreadsheet always holds the values as extracted.
	Defang bool

	// SaveHistory records each run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// WatchSettleDelay is how long a watched file must stay unchanged
	// before it is processed.
	WatchSettleDelay time.Duration

	// Log configures the optional log file.
	Log LogConfig

	// Verbose enables debug logging.
	Verbose bool
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	// File is the log file path. Empty disables file logging.
	File string

	// MaxSizeMB is the size in megabytes at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int

	// Compress gzips rotated files.
	Compress bool
}

// NewConfig creates a new Config with default values.
// History is on, reports are plain text and spreadsheets go to the
// desktop output folder.
func NewConfig() *Config {
	return &Config{
		OutputDir:        DefaultOutputDir(),
		SaveHistory:      true,
		DBDir:            XDGDataDir(),
		WatchSettleDelay: DefaultWatchSettleDelay,
		Log: LogConfig{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
	}
}

// DefaultOutputDir returns the folder under the user's desktop directory
// where spreadsheets are written. It returns an empty string when the
// desktop directory is unknown.
func DefaultOutputDir() string {
	if xdg.UserDirs.Desktop == "" {
		return ""
	}
	return filepath.Join(xdg.UserDirs.Desktop, OutputFolderName)
}

// XDGDataDir returns the XDG data directory for iocextract.
// On Linux: ~/.local/share/iocextract
// On macOS: ~/Library/Application Support/iocextract
// On Windows: %LOCALAPPDATA%\iocextract
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ReportFormat returns the name of the selected report format.
func (c *Config) ReportFormat() string {
	switch {
	case c.JSONReport:
		return ReportJSON
	case c.MarkdownReport:
		return ReportMarkdown
	default:
		return ReportText
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package sentinel errors.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.WatchSettleDelay < 0 {
		return ErrInvalidSettleDelay
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return ErrInvalidLogRotation
	}

	return nil
}
