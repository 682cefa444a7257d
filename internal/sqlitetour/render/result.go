package render

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
)

// Result renders the outcome of sqlitec.Conn.Query. Read statements show
// their columns and rows with a row count footer, write statements show the
// rows affected and the last insert id.
func Result(res *sqlitec.QueryResult) string {
	tw := NewTableWriter()

	if !res.IsRead() {
		tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
		tw.AppendRow(table.Row{"OK", res.RowsAffected, res.LastInsertID})
		return tw.Render()
	}

	header := table.Row{}
	for _, col := range res.Columns {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for _, values := range res.Rows {
		row := make(table.Row, len(values))
		for i, value := range values {
			row[i] = FormatValue(value)
		}
		tw.AppendRow(row)
	}

	label := "rows"
	if len(res.Rows) == 1 {
		label = "row"
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%s %s", withCommas(len(res.Rows)), label)})

	return tw.Render()
}

// FormatValue formats a value returned by sqlitec for display.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case []byte:
		return fmt.Sprintf("x'%x'", v)
	}
	return fmt.Sprint(value)
}
