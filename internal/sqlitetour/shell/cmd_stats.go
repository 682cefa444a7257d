package shell

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitetour/internal/sqlitetour/render"
)

func cmdStats(s *Shell) {
	total := s.stats.total

	tw := render.NewTableWriter()
	tw.AppendHeader(table.Row{"Reads", "Writes", "Begins", "Commits", "Rollbacks", "Failed", "All"})
	tw.AppendRow(table.Row{
		total.Read,
		total.Write,
		total.Begin,
		total.Commit,
		total.Rollback,
		total.Failed,
		total.All,
	})

	fmt.Fprintln(s.Out, tw.Render())
	render.DimmedColor().Fprintf(s.Out, "Session uptime: %s\n", s.stats.uptime())
}
