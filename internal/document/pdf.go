package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nao1215/iocextract/internal/model"
)

// PDFReader extracts page text and the information dictionary of a PDF.
//
// The underlying library panics on some malformed files, so opening the
// file, counting pages and reading each page all run under recover. Any
// page that cannot be decoded fails the whole read with ErrInvalidPDF.
type PDFReader struct{}

// NewPDFReader creates a PDF reader.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

// Format returns model.FormatPDF.
func (r *PDFReader) Format() model.Format {
	return model.FormatPDF
}

// Read fills doc with the text of every page joined by "\n".
func (r *PDFReader) Read(ctx context.Context, doc *model.Document, data []byte) error {
	reader, err := openPDF(data)
	if err != nil {
		return err
	}

	pages, err := pageCount(reader)
	if err != nil {
		return err
	}

	texts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := pageText(reader, i)
		if err != nil {
			return err
		}
		texts = append(texts, text)
	}

	doc.Text = strings.Join(texts, "\n")
	doc.Pages = pages
	doc.Metadata = pdfMetadata(reader)
	return nil
}

// openPDF parses the PDF trailer and cross-reference table.
func openPDF(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reader = nil
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, rec)
		}
	}()

	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	return reader, nil
}

func pageCount(reader *pdf.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: broken page tree: %v", ErrInvalidPDF, rec)
		}
	}()
	return reader.NumPage(), nil
}

// pageText returns the plain text of page i (1-based).
func pageText(reader *pdf.Reader, i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: page %d: %v", ErrInvalidPDF, i, rec)
		}
	}()

	page := reader.Page(i)
	if page.V.IsNull() {
		return "", fmt.Errorf("%w: page %d: missing", ErrInvalidPDF, i)
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("%w: page %d: %w", ErrInvalidPDF, i, err)
	}
	return text, nil
}

// pdfMetadata reads the trailer's /Info dictionary. Missing or unreadable
// entries are left empty.
func pdfMetadata(reader *pdf.Reader) (m model.Metadata) {
	defer func() {
		if rec := recover(); rec != nil {
			m = model.Metadata{}
		}
	}()

	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return model.Metadata{}
	}
	return model.Metadata{
		Title:        info.Key("Title").Text(),
		Author:       info.Key("Author").Text(),
		Subject:      info.Key("Subject").Text(),
		Creator:      info.Key("Creator").Text(),
		Producer:     info.Key("Producer").Text(),
		CreationDate: info.Key("CreationDate").Text(),
		ModDate:      info.Key("ModDate").Text(),
	}
}
