// Package document acquires plain text from input files.
//
// # Components
//
//   - Registry: maps file extensions to readers and loads documents
//   - PDFReader: page text and information dictionary via ledongthuc/pdf
//   - HTMLReader: visible text and link targets via golang.org/x/net/html
//   - TextReader: plain text files read as is
//
// Every loaded text is NFKC-normalized, which folds the full-width and
// ligature glyphs some PDF producers emit back into ASCII so that the
// indicator patterns can match them.
//
// # Usage
//
//	reg := document.NewRegistry()
//	doc, err := reg.Load(ctx, "report.pdf")
package document
