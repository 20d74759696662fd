// Package export writes extracted indicators to spreadsheet files.
//
// An ioc.Set is first laid out as a Table: one column per category in
// ioc.Categories order, values sorted ascending, shorter columns padded with
// empty cells. XLSXWriter then renders the table into a single worksheet
// with excelize. Files are written to a temporary name in the destination
// directory and renamed into place, so a failed export never leaves a
// partial workbook at the output path.
package export
