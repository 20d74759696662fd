package document

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/iocextract/internal/model"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRegistry_LoadPDF(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "Report.PDF", buildPDF(t, map[string]string{"Producer": "test"}, "hxxp://bad[.]example[.]com"))

	doc, err := NewRegistry().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Format != model.FormatPDF {
		t.Errorf("Format = %q, want pdf", doc.Format)
	}
	if !strings.Contains(doc.Text, "hxxp://bad[.]example[.]com") {
		t.Errorf("unexpected text %q", doc.Text)
	}
	if len(doc.Hash) != 64 || doc.Size == 0 {
		t.Errorf("hash/size not set: %q %d", doc.Hash, doc.Size)
	}
	if doc.Metadata.Producer != "test" {
		t.Errorf("Producer = %q", doc.Metadata.Producer)
	}
}

func TestRegistry_LoadSniffsPDF(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "download.bin", buildPDF(t, nil, "x"))

	doc, err := NewRegistry().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Format != model.FormatPDF {
		t.Errorf("Format = %q, want pdf", doc.Format)
	}
}

func TestRegistry_LoadText(t *testing.T) {
	t.Parallel()

	// U+FF0E FULLWIDTH FULL STOP is folded by NFKC.
	path := writeFile(t, "notes.md", []byte("c2: evil\uff0eexample\uff0ecom"))

	doc, err := NewRegistry().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Text != "c2: evil.example.com" {
		t.Errorf("Text = %q", doc.Text)
	}
	if doc.Pages != 1 || doc.Format != model.FormatText {
		t.Errorf("Pages = %d, Format = %q", doc.Pages, doc.Format)
	}
}

func TestRegistry_LoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry().Load(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "image.png", []byte{0x89, 'P', 'N', 'G'})
		_, err := NewRegistry().Load(context.Background(), path)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("pdf extension with other content", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "fake.pdf", []byte("<html>not a pdf at all, sorry about that</html>"))
		_, err := NewRegistry().Load(context.Background(), path)
		if !errors.Is(err, ErrInvalidPDF) {
			t.Errorf("expected ErrInvalidPDF, got %v", err)
		}
	})

	t.Run("pdf with an unreadable page", func(t *testing.T) {
		t.Parallel()

		data := bytes.Replace(buildPDF(t, nil, "10.0.0.1", "10.0.0.2"), []byte("/Count 2 "), []byte("/Count 4 "), 1)
		path := writeFile(t, "broken.pdf", data)
		doc, err := NewRegistry().Load(context.Background(), path)
		if !errors.Is(err, ErrInvalidPDF) {
			t.Errorf("expected ErrInvalidPDF, got %v", err)
		}
		if doc != nil {
			t.Errorf("expected no document, got %+v", doc)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := writeFile(t, "a.txt", []byte("x"))
		if _, err := NewRegistry().Load(ctx, path); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestRegistry_RegisterAndSupported(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(WithReader(NewTextReader(), "ioc", ".RULES"))

	tests := []struct {
		path string
		want bool
	}{
		{path: "a.pdf", want: true},
		{path: "a.HTM", want: true},
		{path: "a.ioc", want: true},
		{path: "a.rules", want: true},
		{path: "a.docx", want: false},
		{path: "noext", want: false},
	}
	for _, tt := range tests {
		if got := reg.Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	exts := reg.Extensions()
	if !slices.IsSorted(exts) || !slices.Contains(exts, ".rules") {
		t.Errorf("Extensions() = %v", exts)
	}
}
