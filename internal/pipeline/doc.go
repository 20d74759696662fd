// Package pipeline runs the extraction of one document as a sequence of
// steps: acquire the text, extract indicators, export the spreadsheet and
// record the run in the history database.
//
// Each stage is a Step that receives the current model.Run and fills in
// its part. The Pipeline stops at the first failing step; acquisition,
// extraction and export failures are wrapped with ErrAcquire, ErrExtract and
// ErrExport so callers can tell the stages apart with errors.Is.
//
// BatchProcessor runs a fresh pipeline per input file, one file at a time.
package pipeline
