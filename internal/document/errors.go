package document

import "errors"

var (
	// ErrUnsupportedFormat is returned when no reader handles a file.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidPDF is returned when a file cannot be parsed as a PDF.
	ErrInvalidPDF = errors.New("invalid PDF")
)
