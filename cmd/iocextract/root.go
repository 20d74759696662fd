package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for iocextract.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iocextract",
		Short: "Extract indicators of compromise from threat reports",
		Long: `iocextract extracts indicators of compromise (IOCs) from PDF threat reports
and exports them to a spreadsheet.

It recognizes MD5, SHA1 and SHA256 hashes, email addresses, URLs, domains,
IPv4 and IPv6 addresses, including defanged forms such as hxxp://,
example[.]com and user[at]example.com.

Spreadsheets are written to the "IOCs Extractor" folder on your desktop
unless --output-dir is given. Every run is recorded in a local history
database so that later reports of the same document can be compared.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .iocextract in current or home directory)")
	cmd.PersistentFlags().String("log-file", "",
		"Also write logs to this file (rotated automatically)")
	cmd.PersistentFlags().String("data-dir", "",
		"Directory of the history database (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
