// Package report prints extraction results to a terminal or pipe.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown for tickets and wikis
//
// Every writer renders three things: a single run, a comparison of two
// runs, and a history listing. The spreadsheet itself is produced by the
// export package; reports never create files.
package report
