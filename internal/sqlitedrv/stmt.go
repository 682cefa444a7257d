package sqlitedrv

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"

	"github.com/nsqlite/sqlitetour/internal/sqlitec"
)

// ErrNamedParameter is returned when a named argument is passed.
var ErrNamedParameter = errors.New("named parameters are not supported")

// Stmt implements the database/sql/driver.Stmt interface
type Stmt struct {
	conn *Conn
	stmt *sqlitec.Stmt
}

// Close finalizes the statement.
func (stmt *Stmt) Close() error {
	return stmt.stmt.Finalize()
}

// NumInput returns the number of parameters of the statement.
func (stmt *Stmt) NumInput() int {
	return stmt.stmt.BindParameterCount()
}

// Exec executes a statement that returns no rows.
//
// Deprecated: database/sql calls ExecContext.
func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return stmt.ExecContext(context.Background(), namedValues(args))
}

// Query executes a statement that may return rows.
//
// Deprecated: database/sql calls QueryContext.
func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return stmt.QueryContext(context.Background(), namedValues(args))
}

// ExecContext runs the statement to completion. Rows returned by the
// statement are skipped.
func (stmt *Stmt) ExecContext(_ context.Context, args []driver.NamedValue) (driver.Result, error) {
	if err := stmt.bind(args); err != nil {
		return nil, err
	}

	raw := stmt.conn.conn
	before := raw.TotalChanges()
	for {
		hasRow, err := stmt.stmt.Step()
		if err != nil {
			_ = stmt.stmt.Reset()
			return nil, err
		}
		if !hasRow {
			break
		}
	}

	res := &Result{lastInsertID: raw.LastInsertRowID()}
	if raw.TotalChanges() != before {
		res.rowsAffected = raw.RowsAffected()
	}
	return res, nil
}

// QueryContext binds args and returns the rows of the statement.
func (stmt *Stmt) QueryContext(_ context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if err := stmt.bind(args); err != nil {
		return nil, err
	}
	return &Rows{stmt: stmt.stmt}, nil
}

// bind resets the statement and binds args by position.
func (stmt *Stmt) bind(args []driver.NamedValue) error {
	if err := stmt.stmt.Reset(); err != nil {
		return err
	}

	for _, arg := range args {
		if arg.Name != "" {
			return ErrNamedParameter
		}
		if err := stmt.stmt.BindValue(arg.Ordinal, arg.Value); err != nil {
			return err
		}
	}
	return nil
}

func namedValues(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, arg := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: arg}
	}
	return named
}

// Rows implements the database/sql/driver.Rows interface
type Rows struct {
	stmt    *sqlitec.Stmt
	columns []string
}

// Columns returns the column names of the result set.
func (rows *Rows) Columns() []string {
	if rows.columns == nil {
		count := rows.stmt.ColumnCount()
		rows.columns = make([]string, count)
		for i := range count {
			rows.columns[i] = rows.stmt.ColumnName(i)
		}
	}
	return rows.columns
}

// ColumnTypeDatabaseTypeName returns the declared type of a column.
func (rows *Rows) ColumnTypeDatabaseTypeName(index int) string {
	return rows.stmt.ColumnDeclType(index)
}

// Next steps to the next row and copies its values into dest.
func (rows *Rows) Next(dest []driver.Value) error {
	hasRow, err := rows.stmt.Step()
	if err != nil {
		return err
	}
	if !hasRow {
		return io.EOF
	}

	for i := range dest {
		dest[i] = rows.stmt.ColumnValue(i)
	}
	return nil
}

// Close resets the statement so it can run again. The statement itself is
// closed by its owner.
func (rows *Rows) Close() error {
	if rows.stmt.State() == sqlitec.StmtStateFinalized {
		return nil
	}
	return rows.stmt.Reset()
}
