package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("console only", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		logger, closer, err := New(Options{Console: &console})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		defer closer.Close()

		logger.Warn("pages skipped", "url", "http://bad.example.com")
		if !strings.Contains(console.String(), "hxxp://bad[.]example[.]com") {
			t.Errorf("expected defanged console output: %s", console.String())
		}
	})

	t.Run("console and file", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "iocextract.log")
		logger, closer, err := New(Options{
			Console: &console,
			File:    FileOptions{Path: path, MaxSizeMB: 1},
		})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		logger.Info("document processed", "domain", "bad.example.com")
		logger.Warn("history unavailable")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		data, err := os.ReadFile(path) //nolint:gosec // test file path
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		file := string(data)

		if !strings.Contains(file, `"msg":"document processed"`) {
			t.Errorf("expected info record in file: %s", file)
		}
		if !strings.Contains(file, `bad[.]example[.]com`) {
			t.Errorf("expected defanged domain in file: %s", file)
		}
		if strings.Contains(console.String(), "document processed") {
			t.Error("info record should not reach the console without verbose")
		}
		if !strings.Contains(console.String(), "history unavailable") {
			t.Error("warn record should reach the console")
		}
	})
}
