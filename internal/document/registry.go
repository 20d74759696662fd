package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nao1215/iocextract/internal/model"
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// Reader turns the raw bytes of a file into document text.
// Implementations fill Text, Pages and Metadata of doc.
type Reader interface {
	Read(ctx context.Context, doc *model.Document, data []byte) error
	Format() model.Format
}

// Registry selects a Reader by file extension.
type Registry struct {
	readers map[string]Reader
	pdf     Reader
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithReader registers r for the given extensions. Extensions are matched
// case-insensitively and may be given with or without the leading dot.
func WithReader(r Reader, exts ...string) RegistryOption {
	return func(reg *Registry) {
		reg.Register(r, exts...)
	}
}

// NewRegistry creates a registry with the built-in readers:
// .pdf, .html/.htm/.xhtml and .txt/.text/.md/.log/.csv.
func NewRegistry(opts ...RegistryOption) *Registry {
	pdf := NewPDFReader()
	reg := &Registry{
		readers: make(map[string]Reader),
		pdf:     pdf,
	}
	reg.Register(pdf, ".pdf")
	reg.Register(NewHTMLReader(), ".html", ".htm", ".xhtml")
	reg.Register(NewTextReader(), ".txt", ".text", ".md", ".log", ".csv")

	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// Register maps extensions to r, replacing any previous reader.
func (reg *Registry) Register(r Reader, exts ...string) {
	for _, ext := range exts {
		reg.readers[normalizeExt(ext)] = r
	}
}

// Extensions returns the registered extensions in sorted order.
func (reg *Registry) Extensions() []string {
	exts := make([]string, 0, len(reg.readers))
	for ext := range reg.readers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Supported reports whether path has a registered extension.
func (reg *Registry) Supported(path string) bool {
	_, ok := reg.readers[normalizeExt(filepath.Ext(path))]
	return ok
}

// Load reads the file at path and acquires its text.
// Files with an unknown extension are still read as PDF when their content
// starts with the PDF header.
func (reg *Registry) Load(ctx context.Context, path string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is user input
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	reader, err := reg.lookup(path, data)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		Path:   path,
		Format: reader.Format(),
	}
	doc.ComputeHash(data)

	if err := reader.Read(ctx, doc, data); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	doc.Text = Normalize(doc.Text)
	doc.Metadata = normalizeMetadata(doc.Metadata)

	return doc, nil
}

// lookup picks the reader for path, sniffing the PDF header as a fallback.
func (reg *Registry) lookup(path string, data []byte) (Reader, error) {
	ext := normalizeExt(filepath.Ext(path))
	if r, ok := reg.readers[ext]; ok {
		return r, nil
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return reg.pdf, nil
	}
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
