// Package render turns rows of field values into boxed terminal tables.
package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// NoRows is rendered in place of an empty table.
const NoRows = "No Rows"

// Row is one line of a table, in column order.
type Row struct {
	Names []string
}

// NewRow returns a Row with the given field values.
func NewRow(names ...string) Row {
	return Row{Names: names}
}

func (row Row) tableRow() table.Row {
	tr := make(table.Row, len(row.Names))
	for i, name := range row.Names {
		tr[i] = name
	}
	return tr
}

// TableRecord is a value that knows its column names and its own values.
type TableRecord interface {
	HeaderRow() Row
	DataRow() Row
}

// Table renders the first row as the header and the remaining rows as data.
// An empty input renders a single NoRows cell.
func Table(rows []Row) string {
	tw := NewTableWriter()

	if len(rows) == 0 {
		tw.AppendRow(table.Row{NoRows})
		return tw.Render()
	}

	tw.AppendHeader(rows[0].tableRow())
	for _, row := range rows[1:] {
		tw.AppendRow(row.tableRow())
	}

	return tw.Render()
}

// Record renders a single record under its header.
func Record(record TableRecord) string {
	return Table([]Row{record.HeaderRow(), record.DataRow()})
}

// Records renders every record under the header of the first one. It
// returns false, and no table, when items is empty.
func Records[T TableRecord](items []T) (string, bool) {
	if len(items) == 0 {
		return "", false
	}

	rows := make([]Row, 0, len(items)+1)
	rows = append(rows, items[0].HeaderRow())
	for _, item := range items {
		rows = append(rows, item.DataRow())
	}

	return Table(rows), true
}
