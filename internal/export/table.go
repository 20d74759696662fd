package export

import "github.com/nao1215/iocextract/internal/ioc"

// Table is a rectangular grid of indicator values.
type Table struct {
	// Header holds one category name per column.
	Header []string

	// Rows holds the values below the header. Every row has len(Header)
	// cells; missing values are "".
	Rows [][]string

	// Title is stored in the workbook properties when set.
	Title string
}

// NewTable lays out set as a table. The table always has at least one row,
// so an empty set still produces a header and one blank row.
func NewTable(set *ioc.Set) *Table {
	header := make([]string, len(ioc.Categories))
	columns := make([][]string, len(ioc.Categories))
	for i, c := range ioc.Categories {
		header[i] = c.String()
		columns[i] = set.Values(c)
	}

	n := max(1, set.MaxLen())
	rows := make([][]string, n)
	for r := range rows {
		row := make([]string, len(header))
		for c, values := range columns {
			if r < len(values) {
				row[c] = values[r]
			}
		}
		rows[r] = row
	}

	return &Table{Header: header, Rows: rows}
}

// Column returns the non-empty values of the named column, or nil if the
// table has no such column.
func (t *Table) Column(name string) []string {
	for i, h := range t.Header {
		if h != name {
			continue
		}
		values := make([]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			if row[i] != "" {
				values = append(values, row[i])
			}
		}
		return values
	}
	return nil
}
