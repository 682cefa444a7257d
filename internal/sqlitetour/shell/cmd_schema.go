package shell

import (
	"fmt"
	"strings"

	"github.com/nsqlite/sqlitetour/internal/sqlitec"
)

const (
	tablesSQL = "SELECT name FROM sqlite_master " +
		"WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name;"
	schemaSQL = "SELECT sql FROM sqlite_master " +
		"WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%' ORDER BY name;"
	columnsSQL = `SELECT name, type, "notnull", dflt_value, pk ` +
		"FROM pragma_table_info(?) ORDER BY cid;"
)

func cmdTables(s *Shell) {
	cmdQuery(s, tablesSQL, nil)
}

func cmdSchema(s *Shell) {
	cmdQuery(s, schemaSQL, nil)
}

func cmdCount(s *Shell, tableName string) {
	if tableName == "" {
		fmt.Fprintln(s.Out, "Table name is required, usage: .count [table_name]")
		return
	}
	cmdQuery(s, "SELECT COUNT(*) AS count FROM "+quoteIdent(tableName)+";", nil)
}

func cmdColumns(s *Shell, tableName string) {
	if tableName == "" {
		fmt.Fprintln(s.Out, "Table name is required, usage: .columns [table_name]")
		return
	}
	cmdQuery(s, columnsSQL, []sqlitec.QueryParam{{Value: tableName}})
}

// quoteIdent quotes a table name so it can be placed in a query.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
