package shell

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
	"github.com/nsqlite/sqlitetour/internal/sqlitetour/render"
)

func cmdQuery(s *Shell, query string, params []sqlitec.QueryParam) {
	res, err := s.Conn.Query(query, params)
	s.stats.addQuery(query, res, err)
	if err != nil {
		s.Logger.DebugNs(log.NsShell, "query failed", log.KV{"error": err})
		fmt.Fprintln(s.Out, renderError(err))
		return
	}

	fmt.Fprintln(s.Out, render.Result(res))
	render.DimmedColor().Fprintf(s.Out, "Done in %s\n", res.Time)
}

// renderError shows the engine message and result code of a failed query.
func renderError(err error) string {
	tw := render.NewTableWriter()
	tw.AppendHeader(table.Row{"Error", "Code"})

	var sqliteErr *sqlitec.Error
	if errors.As(err, &sqliteErr) {
		tw.AppendRow(table.Row{sqliteErr.Message, sqliteErr.Code.String()})
	} else {
		tw.AppendRow(table.Row{err.Error(), "-"})
	}

	return tw.Render()
}
