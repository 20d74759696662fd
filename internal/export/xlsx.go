package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the name of the worksheet holding the table.
const DefaultSheet = "Sheet1"

// DefaultFileMode is the permission set of a newly written workbook.
const DefaultFileMode os.FileMode = 0o644

// Column width bounds, in characters.
const (
	minColumnWidth = 10
	maxColumnWidth = 80
)

// XLSXWriter renders tables as Excel workbooks.
type XLSXWriter struct {
	sheet      string
	creator    string
	boldHeader bool
	freezeHead bool
	fitColumns bool
}

// XLSXOption configures an XLSXWriter.
type XLSXOption func(*XLSXWriter)

// WithSheetName sets the worksheet name.
func WithSheetName(name string) XLSXOption {
	return func(w *XLSXWriter) {
		if name != "" {
			w.sheet = name
		}
	}
}

// WithCreator sets the workbook's creator property.
func WithCreator(creator string) XLSXOption {
	return func(w *XLSXWriter) {
		w.creator = creator
	}
}

// WithPlainHeader disables the bold, frozen header row.
func WithPlainHeader() XLSXOption {
	return func(w *XLSXWriter) {
		w.boldHeader = false
		w.freezeHead = false
	}
}

// NewXLSXWriter creates a writer producing a single sheet named Sheet1
// with a bold, frozen header row and columns sized to their content.
func NewXLSXWriter(opts ...XLSXOption) *XLSXWriter {
	w := &XLSXWriter{
		sheet:      DefaultSheet,
		creator:    "iocextract",
		boldHeader: true,
		freezeHead: true,
		fitColumns: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Sheet returns the worksheet name.
func (w *XLSXWriter) Sheet() string {
	return w.sheet
}

// WriteFile writes t to path. The workbook is written to a temporary file
// next to path and renamed over it once complete; on failure the temporary
// file is removed and path is left untouched.
func (w *XLSXWriter) WriteFile(path string, t *Table) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err := w.Write(tmp, t); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(workbookMode(path)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set workbook permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}
	return nil
}

// workbookMode returns the permissions of the file being replaced, or
// DefaultFileMode for a new workbook.
func workbookMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return DefaultFileMode
}

// Write renders t as a workbook to out.
func (w *XLSXWriter) Write(out io.Writer, t *Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if w.sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, w.sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := w.writeRows(f, t); err != nil {
		return err
	}
	if err := w.styleHeader(f, len(t.Header)); err != nil {
		return err
	}
	if w.fitColumns {
		if err := w.sizeColumns(f, t); err != nil {
			return err
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: w.creator,
		Title:   t.Title,
	}); err != nil {
		return fmt.Errorf("failed to set workbook properties: %w", err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) writeRows(f *excelize.File, t *Table) error {
	if err := f.SetSheetRow(w.sheet, "A1", toCells(t.Header)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(w.sheet, cell, toCells(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

func (w *XLSXWriter) styleHeader(f *excelize.File, columns int) error {
	if columns == 0 {
		return nil
	}
	if w.boldHeader {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(columns, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(w.sheet, "A1", last, style); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}
	if w.freezeHead {
		if err := f.SetPanes(w.sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}
	return nil
}

func (w *XLSXWriter) sizeColumns(f *excelize.File, t *Table) error {
	for i, h := range t.Header {
		width := utf8.RuneCountInString(h)
		for _, row := range t.Rows {
			width = max(width, utf8.RuneCountInString(row[i]))
		}
		width = min(max(width+2, minColumnWidth), maxColumnWidth)

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(w.sheet, col, col, float64(width)); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return nil
}

func toCells(values []string) *[]any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return &cells
}
