package document

import (
	"context"

	"github.com/nao1215/iocextract/internal/model"
)

// TextReader reads plain text files unchanged.
type TextReader struct{}

// NewTextReader creates a text reader.
func NewTextReader() *TextReader {
	return &TextReader{}
}

// Format returns model.FormatText.
func (r *TextReader) Format() model.Format {
	return model.FormatText
}

// Read stores data as the document text.
func (r *TextReader) Read(_ context.Context, doc *model.Document, data []byte) error {
	doc.Text = string(data)
	doc.Pages = 1
	return nil
}
