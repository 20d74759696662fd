package pipeline

import "errors"

// Stage errors. Step failures wrap one of them together with the cause.
var (
	// ErrAcquire indicates the input could not be read or parsed.
	ErrAcquire = errors.New("text acquisition failed")

	// ErrExtract indicates indicator extraction failed.
	ErrExtract = errors.New("extraction failed")

	// ErrExport indicates the spreadsheet could not be written.
	ErrExport = errors.New("export failed")
)
