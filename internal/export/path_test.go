package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		dir   string
		input string
		want  string
	}{
		{name: "pdf", dir: "/out", input: "/in/apt29.pdf", want: filepath.Join("/out", "apt29.xlsx")},
		{name: "relative input", dir: "/out", input: "reports/q3 report.pdf", want: filepath.Join("/out", "q3 report.xlsx")},
		{name: "multiple dots", dir: "out", input: "a.b.pdf", want: filepath.Join("out", "a.b.xlsx")},
		{name: "no extension", dir: "out", input: "notes", want: filepath.Join("out", "notes.xlsx")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := OutputPath(tt.dir, tt.input); got != tt.want {
				t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.dir, tt.input, got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "IOCs Extractor", "nested")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing directory failed: %v", err)
	}
}
