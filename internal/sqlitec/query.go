package sqlitec

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// QueryParam is a parameter for Query. An empty Name binds by position,
// otherwise the parameter is looked up by name. The name may carry its
// prefix (":id", "@id", "$id", "?3") or omit it ("id").
type QueryParam struct {
	Name  string
	Value any
}

// QueryResult represents the result of Query.
type QueryResult struct {
	Time         time.Duration
	LastInsertID int64
	RowsAffected int64
	Columns      []string
	Types        []string
	Rows         [][]any
}

// IsRead reports whether the statement produced a result set.
func (res *QueryResult) IsRead() bool {
	return len(res.Columns) > 0
}

// Query executes every statement of the given SQL on the connection, in
// order, and returns the result of the last one. Each statement is finalized
// before the next is prepared, so later statements see the effects of
// earlier ones. Params are bound to the first statement and may only be
// given for a single statement query.
func (conn *Conn) Query(query string, params []QueryParam) (*QueryResult, error) {
	start := time.Now()

	stmt, err := conn.prepare(query)
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return nil, misuse(ErrorKindPrepare, "no SQL statement to prepare")
	}
	if len(params) > 0 {
		if err := conn.checkSingleStatement(stmt); err != nil {
			_ = stmt.Finalize()
			return nil, err
		}
	}

	var res *QueryResult
	for stmt != nil {
		tail := stmt.Tail()
		res, err = conn.runStmt(stmt, params)
		if err != nil {
			return nil, err
		}
		params = nil

		if stmt, err = conn.prepare(tail); err != nil {
			return nil, err
		}
	}
	res.Time = time.Since(start)

	return res, nil
}

// checkSingleStatement fails when the SQL after stmt holds another
// statement.
func (conn *Conn) checkSingleStatement(stmt *Stmt) error {
	next, err := conn.prepare(stmt.Tail())
	if next != nil {
		_ = next.Finalize()
	}
	if next == nil && err == nil {
		return nil
	}
	return newError(ErrorKindPrepare, SQLITE_MISUSE, "parameters can only be bound to a single statement query")
}

// runStmt binds params, steps stmt to the end and finalizes it.
func (conn *Conn) runStmt(stmt *Stmt, params []QueryParam) (res *QueryResult, err error) {
	defer func() {
		if finErr := stmt.Finalize(); finErr != nil && err == nil {
			err = finErr
		}
	}()

	changesBefore := conn.TotalChanges()
	if err := stmt.BindParams(params); err != nil {
		return nil, err
	}

	res = &QueryResult{}
	columnCount := stmt.ColumnCount()
	if columnCount > 0 {
		res.Columns = make([]string, columnCount)
		res.Types = make([]string, columnCount)
		res.Rows = make([][]any, 0)
		for i := range columnCount {
			res.Columns[i] = stmt.ColumnName(i)
			res.Types[i] = stmt.ColumnDeclType(i)
		}
	}

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			break
		}

		row := make([]any, columnCount)
		for i := range columnCount {
			row[i] = stmt.ColumnValue(i)
		}
		res.Rows = append(res.Rows, row)
	}

	if !res.IsRead() {
		res.LastInsertID = conn.LastInsertRowID()
		if conn.TotalChanges() != changesBefore {
			res.RowsAffected = conn.RowsAffected()
		}
	}

	return res, nil
}

// ColumnValue returns the value at the given index typed by its storage
// class: int64, float64, string, []byte or nil.
func (stmt *Stmt) ColumnValue(colIndex int) any {
	switch stmt.ColumnType(colIndex) {
	case SQLITE_INTEGER:
		return stmt.ColumnInt64(colIndex)
	case SQLITE_FLOAT:
		return stmt.ColumnFloat64(colIndex)
	case SQLITE_TEXT:
		return stmt.ColumnText(colIndex)
	case SQLITE_BLOB:
		return stmt.ColumnBlob(colIndex)
	}
	return nil
}

// BindParams binds every param, positional ones by their place in the slice
// (starting at 1) and named ones by name.
func (stmt *Stmt) BindParams(params []QueryParam) error {
	for i, param := range params {
		index := i + 1
		if param.Name != "" {
			index = stmt.paramIndex(param.Name)
			if index == 0 {
				return newError(ErrorKindBind, SQLITE_RANGE, fmt.Sprintf("no such parameter: %s", param.Name))
			}
		}

		if err := stmt.BindValue(index, param.Value); err != nil {
			return err
		}
	}
	return nil
}

// paramIndex resolves a parameter name with or without its prefix.
func (stmt *Stmt) paramIndex(name string) int {
	if strings.ContainsAny(name[:1], "?:@$") {
		return stmt.BindParameterIndex(name)
	}

	for _, prefix := range []string{":", "@", "$"} {
		if index := stmt.BindParameterIndex(prefix + name); index > 0 {
			return index
		}
	}
	return 0
}

// BindValue binds a Go value at the given index choosing the bind call by
// the value type.
func (stmt *Stmt) BindValue(index int, value any) error {
	switch v := value.(type) {
	case nil:
		return stmt.BindNull(index)
	case bool:
		if v {
			return stmt.BindInt64(index, 1)
		}
		return stmt.BindInt64(index, 0)
	case int:
		return stmt.BindInt64(index, int64(v))
	case int8:
		return stmt.BindInt64(index, int64(v))
	case int16:
		return stmt.BindInt64(index, int64(v))
	case int32:
		return stmt.BindInt(index, v)
	case int64:
		return stmt.BindInt64(index, v)
	case uint8:
		return stmt.BindInt64(index, int64(v))
	case uint16:
		return stmt.BindInt64(index, int64(v))
	case uint32:
		return stmt.BindInt64(index, int64(v))
	case uint:
		if uint64(v) > math.MaxInt64 {
			return newError(ErrorKindBind, SQLITE_RANGE, fmt.Sprintf("value %d overflows int64", v))
		}
		return stmt.BindInt64(index, int64(v))
	case uint64:
		if v > math.MaxInt64 {
			return newError(ErrorKindBind, SQLITE_RANGE, fmt.Sprintf("value %d overflows int64", v))
		}
		return stmt.BindInt64(index, int64(v))
	case float32:
		return stmt.BindFloat64(index, float64(v))
	case float64:
		return stmt.BindFloat64(index, v)
	case string:
		return stmt.BindText(index, v)
	case []byte:
		return stmt.BindBlob(index, v)
	case time.Time:
		return stmt.BindText(index, v.Format(time.RFC3339Nano))
	}

	return newError(ErrorKindBind, SQLITE_MISMATCH, fmt.Sprintf("unsupported parameter type %T", value))
}
