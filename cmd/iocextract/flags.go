package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/iocextract/internal/config"
	"github.com/nao1215/iocextract/internal/database"
	applog "github.com/nao1215/iocextract/internal/log"
	"github.com/nao1215/iocextract/internal/report"
	"github.com/spf13/cobra"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getStringFlag retrieves a string flag from the command or the root's
// persistent flags. It returns "" when neither defines the flag.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// flagChanged reports whether the user set the named flag.
func flagChanged(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Changed(name) || cmd.Root().PersistentFlags().Changed(name)
}

// buildConfig creates a Config from defaults, the configuration file and
// the command's flags, in that order of precedence. Flags a command does
// not define are left at their configured value.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if err := cfg.LoadFile(getStringFlag(cmd, "config")); err != nil {
		return nil, err
	}

	if flagChanged(cmd, "output-dir") {
		cfg.OutputDir = getStringFlag(cmd, "output-dir")
	}

	// A report flag on the command line replaces the format from the file.
	if flagChanged(cmd, "json") || flagChanged(cmd, "markdown") {
		var err error
		if cfg.JSONReport, err = boolFlag(cmd, "json"); err != nil {
			return nil, err
		}
		if cfg.MarkdownReport, err = boolFlag(cmd, "markdown"); err != nil {
			return nil, err
		}
	}

	if flagChanged(cmd, "defang") {
		defang, err := boolFlag(cmd, "defang")
		if err != nil {
			return nil, err
		}
		cfg.Defang = defang
	}

	if flagChanged(cmd, "no-history") {
		noHistory, err := boolFlag(cmd, "no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !noHistory
	}

	if flagChanged(cmd, "settle") {
		settle, err := cmd.Flags().GetDuration("settle")
		if err != nil {
			return nil, err
		}
		cfg.WatchSettleDelay = settle
	}

	if dir := getStringFlag(cmd, "data-dir"); dir != "" {
		cfg.DBDir = dir
	}
	if file := getStringFlag(cmd, "log-file"); file != "" {
		cfg.Log.File = file
	}
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Inputs = args

	return cfg, nil
}

// boolFlag returns a local bool flag, false when the command lacks it.
func boolFlag(cmd *cobra.Command, name string) (bool, error) {
	if cmd.Flags().Lookup(name) == nil {
		return false, nil
	}
	return cmd.Flags().GetBool(name)
}

// setupLogger creates the structured logger for cfg. The returned closer
// releases the log file.
func setupLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, io.Closer, error) {
	logger, closer, err := applog.New(applog.Options{
		Console: cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
		File: applog.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logger, closer, nil
}

// reportFormat returns the report format selected by cfg.
func reportFormat(cfg *config.Config) report.Format {
	return report.Format(cfg.ReportFormat())
}

// newReportWriter returns the report writer selected by cfg.
func newReportWriter(cfg *config.Config, out io.Writer) (report.Writer, error) {
	return report.NewWriter(reportFormat(cfg), out, cfg.Defang)
}

// openHistory opens the history database in cfg.DBDir.
func openHistory(cfg *config.Config) (*database.HistoryDB, error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
