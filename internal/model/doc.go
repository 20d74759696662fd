// Package model defines the data structures shared by the extraction
// pipeline, the report writers and the history database.
//
// This package contains the following main types:
//   - Document: the text and metadata acquired from one input file
//   - Metadata: the document information dictionary of a PDF
//   - Run: the outcome of processing one document
//
// Models live in their own package so that document, pipeline, report and
// database can share them without import cycles. All of them serialize to
// JSON for report output and database storage.
package model
