package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the file extension of exported workbooks.
const Extension = ".xlsx"

// OutputPath returns dir/<input base name without extension>.xlsx.
func OutputPath(dir, input string) string {
	name := filepath.Base(input)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, stem+Extension)
}

// EnsureDir creates dir and its parents if they do not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
