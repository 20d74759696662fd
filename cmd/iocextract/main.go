// Package main provides the entry point for the iocextract CLI.
//
// iocextract pulls indicators of compromise (hashes, email addresses, URLs,
// domains and IP addresses) out of PDF threat reports, including the
// defanged forms such as hxxp:// and example[.]com, and writes them to a
// spreadsheet with one column per indicator type.
//
// Usage:
//
//	iocextract extract <report.pdf>
//	iocextract watch <directory>
//
// See --help for all available options.
package main

// main is the entry point for iocextract.
func main() {
	Execute()
}
