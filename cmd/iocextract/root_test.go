package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "iocextract" {
			t.Errorf("expected use 'iocextract', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty short and long descriptions")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has persistent flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"verbose", "config", "log-file", "data-dir"} {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("expected persistent flag %q", name)
			}
		}
		if f := cmd.PersistentFlags().Lookup("verbose"); f != nil && f.Shorthand != "v" {
			t.Errorf("expected verbose shorthand 'v', got %q", f.Shorthand)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{
			"extract": false, "watch": false, "history": false,
			"compare": false, "init": false, "version": false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// testEnv is an isolated set of directories for running commands.
type testEnv struct {
	configPath string
	dataDir    string
	outputDir  string
	inputDir   string
}

// newTestEnv creates a configuration file and directories under a temp dir
// so that commands never touch the user's desktop or history.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		configPath: filepath.Join(root, "iocextract.yaml"),
		dataDir:    filepath.Join(root, "data"),
		outputDir:  filepath.Join(root, "out"),
		inputDir:   filepath.Join(root, "in"),
	}
	if err := os.WriteFile(env.configPath, []byte("report: text\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.MkdirAll(env.inputDir, 0750); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}
	return env
}

// writeInput writes an input document and returns its path.
func (e *testEnv) writeInput(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(e.inputDir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

// execute runs the root command with args followed by the environment's
// global flags, and returns stdout.
func (e *testEnv) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", e.configPath, "--data-dir", e.dataDir))

	err := cmd.Execute()
	return stdout.String(), err
}
