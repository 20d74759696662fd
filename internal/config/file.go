package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File represents the structure of the .iocextract configuration file.
// Every field is optional; unset fields keep the built-in default.
type File struct {
	// OutputDir replaces the desktop output folder. A leading "~/" is
	// expanded to the home directory.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Report selects the default report format: text, json or markdown.
	Report string `yaml:"report,omitempty"`

	// Defang prints indicators in non-clickable form.
	Defang *bool `yaml:"defang,omitempty"`

	// History enables the history database. Defaults to true.
	History *bool `yaml:"history,omitempty"`

	// Watch holds settings for the watch command.
	Watch WatchSection `yaml:"watch,omitempty"`

	// Log holds the log file settings.
	Log LogSection `yaml:"log,omitempty"`
}

// WatchSection is the watch part of the configuration file.
type WatchSection struct {
	// SettleDelay is a Go duration string such as "2s" or "500ms".
	SettleDelay string `yaml:"settle_delay,omitempty"`
}

// LogSection is the log part of the configuration file.
type LogSection struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// ApplyFile overrides c with the values set in f.
// Flags are applied after this, so they win over the file.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}

	if f.OutputDir != "" {
		dir, err := expandHome(f.OutputDir)
		if err != nil {
			return fmt.Errorf("output_dir: %w", err)
		}
		c.OutputDir = dir
	}

	switch strings.ToLower(f.Report) {
	case "", ReportText:
	case ReportJSON:
		c.JSONReport = true
	case ReportMarkdown:
		c.MarkdownReport = true
	default:
		return fmt.Errorf("%w: %q", ErrInvalidReportFormat, f.Report)
	}

	if f.Defang != nil {
		c.Defang = *f.Defang
	}
	if f.History != nil {
		c.SaveHistory = *f.History
	}

	if f.Watch.SettleDelay != "" {
		d, err := time.ParseDuration(f.Watch.SettleDelay)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidSettleDelay, f.Watch.SettleDelay)
		}
		c.WatchSettleDelay = d
	}

	if f.Log.File != "" {
		path, err := expandHome(f.Log.File)
		if err != nil {
			return fmt.Errorf("log.file: %w", err)
		}
		c.Log.File = path
	}
	if f.Log.MaxSizeMB != 0 {
		c.Log.MaxSizeMB = f.Log.MaxSizeMB
	}
	if f.Log.MaxBackups != 0 {
		c.Log.MaxBackups = f.Log.MaxBackups
	}
	if f.Log.MaxAgeDays != 0 {
		c.Log.MaxAgeDays = f.Log.MaxAgeDays
	}
	if f.Log.Compress {
		c.Log.Compress = true
	}

	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
