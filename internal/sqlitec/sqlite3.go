package sqlitec

/*
#cgo LDFLAGS: -lsqlite3
// mattn/go-sqlite3 links its own static copy of sqlite3 into the bench and
// the driver tests, next to this one.
#cgo linux LDFLAGS: -Wl,--allow-multiple-definition
#include <sqlite3.h>
#include <stdlib.h>

static int cust_sqlite3_bind_text(sqlite3_stmt *stmt, int idx, const char *val, int n) {
	return sqlite3_bind_text(stmt, idx, val, n, SQLITE_TRANSIENT);
}

static int cust_sqlite3_bind_blob(sqlite3_stmt *stmt, int idx, const void *val, int n) {
	return sqlite3_bind_blob(stmt, idx, val, n, SQLITE_TRANSIENT);
}
*/
import "C"
import (
	"runtime"
	"unsafe"
)

// Conn represents a high-level connection to a SQLite database.
//
// https://www.sqlite.org/c3ref/sqlite3.html
type Conn struct {
	cDB   *C.sqlite3
	path  string
	state ConnState
}

// Stmt represents a prepared statement in SQLite.
//
// https://www.sqlite.org/c3ref/stmt.html
type Stmt struct {
	conn  *Conn
	cStmt *C.sqlite3_stmt
	state StmtState
	tail  string
	// bound is set once a value was bound and cleared by ClearBindings.
	bound bool
}

// errMsg returns the last diagnostic of the given handle, or the fallback
// message when the engine provided none.
func errMsg(db *C.sqlite3) string {
	if db == nil {
		return fallbackErrMsg
	}
	msg := C.GoString(C.sqlite3_errmsg(db))
	if msg == "" {
		return fallbackErrMsg
	}
	return msg
}

// LibVersion returns the version of the linked SQLite library.
//
// https://www.sqlite.org/c3ref/libversion.html
func LibVersion() string {
	return C.GoString(C.sqlite3_libversion())
}

// Open opens a new SQLite database connection using the given path. The file
// is created if it does not exist, its directory is not.
//
// https://www.sqlite.org/c3ref/open.html
func Open(filePath string) (*Conn, error) {
	cFilePath := C.CString(filePath)
	defer C.free(unsafe.Pointer(cFilePath))

	var db *C.sqlite3
	resCode := ResultCode(C.sqlite3_open(cFilePath, &db))
	if resCode != SQLITE_OK {
		msg := errMsg(db)
		if db != nil {
			_ = C.sqlite3_close(db)
		}
		return nil, newError(ErrorKindOpen, resCode, msg)
	}

	conn := &Conn{cDB: db, path: filePath, state: ConnStateOpen}
	runtime.SetFinalizer(conn, func(conn *Conn) {
		_ = conn.Close()
	})
	return conn, nil
}

// State returns the lifecycle state of the connection.
func (conn *Conn) State() ConnState {
	if conn.state.Value == "" {
		return ConnStateUnopened
	}
	return conn.state
}

// Path returns the path the connection was opened with.
func (conn *Conn) Path() string {
	return conn.path
}

// ErrorMessage returns the last error message from the SQLite database.
//
// https://www.sqlite.org/c3ref/errcode.html
func (conn *Conn) ErrorMessage() string {
	return errMsg(conn.cDB)
}

// Close finalizes the connection to the SQLite database. Closing an already
// closed or never opened connection is a no-op.
//
// https://www.sqlite.org/c3ref/close.html
func (conn *Conn) Close() error {
	if conn.cDB == nil {
		return nil
	}

	// The sqlite3_close_v2() interface is intended for use with host
	// languages that are garbage collected, and where the order in which
	// destructors are called is arbitrary.
	resCode := ResultCode(C.sqlite3_close_v2(conn.cDB))
	if resCode != SQLITE_OK {
		return newError(ErrorKindClose, resCode, conn.ErrorMessage())
	}
	conn.cDB = nil
	conn.state = ConnStateClosed
	runtime.SetFinalizer(conn, nil)

	return nil
}

func (conn *Conn) checkOpen(kind ErrorKind) error {
	if conn.State() != ConnStateOpen {
		return misuse(kind, "database connection is "+conn.State().Value)
	}
	return nil
}

// Filename returns the absolute path of the main database file, or an empty
// string for in-memory and temporary databases.
//
// https://www.sqlite.org/c3ref/db_filename.html
func (conn *Conn) Filename() string {
	if conn.cDB == nil {
		return ""
	}
	cMain := C.CString("main")
	defer C.free(unsafe.Pointer(cMain))

	return C.GoString(C.sqlite3_db_filename(conn.cDB, cMain))
}

// LastInsertRowID returns the row ID of the most recent successful INSERT
// into the database from the current connection.
//
// https://www.sqlite.org/c3ref/last_insert_rowid.html
func (conn *Conn) LastInsertRowID() int64 {
	if conn.cDB == nil {
		return 0
	}
	return int64(C.sqlite3_last_insert_rowid(conn.cDB))
}

// RowsAffected returns the number of rows modified, inserted, or deleted by
// the most recent successful INSERT, UPDATE, or DELETE statement from the
// current connection.
//
// https://www.sqlite.org/c3ref/changes.html
func (conn *Conn) RowsAffected() int64 {
	if conn.cDB == nil {
		return 0
	}
	return int64(C.sqlite3_changes(conn.cDB))
}

// TotalChanges returns the number of rows changed since the connection was
// opened.
//
// https://www.sqlite.org/c3ref/total_changes.html
func (conn *Conn) TotalChanges() int64 {
	if conn.cDB == nil {
		return 0
	}
	return int64(C.sqlite3_total_changes(conn.cDB))
}

// AutoCommit returns false while an explicit transaction is open.
//
// https://www.sqlite.org/c3ref/get_autocommit.html
func (conn *Conn) AutoCommit() bool {
	if conn.cDB == nil {
		return true
	}
	return C.sqlite3_get_autocommit(conn.cDB) != 0
}

// OpenStatements returns the number of prepared statements of this
// connection that have not been finalized yet.
//
// https://www.sqlite.org/c3ref/next_stmt.html
func (conn *Conn) OpenStatements() int {
	if conn.cDB == nil {
		return 0
	}

	count := 0
	for cStmt := C.sqlite3_next_stmt(conn.cDB, nil); cStmt != nil; cStmt = C.sqlite3_next_stmt(conn.cDB, cStmt) {
		count++
	}
	return count
}

// Exec executes the given SQL on the SQLite database connection from start
// to finish, without returning any data. The SQL may hold several
// statements separated by semicolons.
//
// https://www.sqlite.org/c3ref/exec.html
func (conn *Conn) Exec(query string) error {
	if err := conn.checkOpen(ErrorKindExec); err != nil {
		return err
	}

	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	var cErrMsg *C.char
	resCode := ResultCode(C.sqlite3_exec(conn.cDB, cQuery, nil, nil, &cErrMsg))
	if cErrMsg != nil {
		defer C.sqlite3_free(unsafe.Pointer(cErrMsg))
	}
	if resCode != SQLITE_OK {
		msg := conn.ErrorMessage()
		if cErrMsg != nil {
			msg = C.GoString(cErrMsg)
		}
		return newError(ErrorKindExec, resCode, msg)
	}

	return nil
}

// Prepare compiles the first statement of the given SQL into a prepared
// statement. On failure no statement handle is kept. The SQL after the first
// statement is available from Stmt.Tail.
//
// https://www.sqlite.org/c3ref/prepare.html
func (conn *Conn) Prepare(query string) (*Stmt, error) {
	stmt, err := conn.prepare(query)
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return nil, misuse(ErrorKindPrepare, "no SQL statement to prepare")
	}
	return stmt, nil
}

// prepare compiles the first statement of query. It returns a nil Stmt and
// no error when query holds only whitespace or comments.
func (conn *Conn) prepare(query string) (*Stmt, error) {
	if err := conn.checkOpen(ErrorKindPrepare); err != nil {
		return nil, err
	}

	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	var cStmt *C.sqlite3_stmt
	var cTail *C.char
	resCode := ResultCode(C.sqlite3_prepare_v2(conn.cDB, cQuery, C.int(len(query)), &cStmt, &cTail))
	if resCode != SQLITE_OK {
		msg := conn.ErrorMessage()
		if cStmt != nil {
			_ = C.sqlite3_finalize(cStmt)
		}
		return nil, newError(ErrorKindPrepare, resCode, msg)
	}
	if cStmt == nil {
		return nil, nil
	}

	tail := ""
	if cTail != nil {
		offset := int(uintptr(unsafe.Pointer(cTail)) - uintptr(unsafe.Pointer(cQuery)))
		if offset >= 0 && offset < len(query) {
			tail = query[offset:]
		}
	}

	stmt := &Stmt{conn: conn, cStmt: cStmt, state: StmtStatePrepared, tail: tail}
	runtime.SetFinalizer(stmt, func(stmt *Stmt) {
		_ = stmt.Finalize()
	})
	return stmt, nil
}

// WithStmt prepares the given SQL, hands the statement to fn and finalizes
// it on every exit path. The first error wins.
func (conn *Conn) WithStmt(query string, fn func(stmt *Stmt) error) (err error) {
	stmt, err := conn.Prepare(query)
	if err != nil {
		return err
	}
	defer func() {
		if finErr := stmt.Finalize(); finErr != nil && err == nil {
			err = finErr
		}
	}()

	return fn(stmt)
}

// Tail returns the SQL text that follows the statement, which was not
// compiled.
func (stmt *Stmt) Tail() string {
	return stmt.tail
}

// State returns the lifecycle state of the statement.
func (stmt *Stmt) State() StmtState {
	if stmt.cStmt == nil {
		return StmtStateFinalized
	}
	return stmt.state
}

// SQL returns the text used to prepare the statement.
//
// https://www.sqlite.org/c3ref/expanded_sql.html
func (stmt *Stmt) SQL() string {
	if stmt.cStmt == nil {
		return ""
	}
	return C.GoString(C.sqlite3_sql(stmt.cStmt))
}

// ReadOnly returns true if the statement makes no direct changes to the
// database file.
//
// https://www.sqlite.org/c3ref/stmt_readonly.html
func (stmt *Stmt) ReadOnly() bool {
	if stmt.cStmt == nil {
		return false
	}
	return C.sqlite3_stmt_readonly(stmt.cStmt) != 0
}

func (stmt *Stmt) checkBindable() error {
	state := stmt.State()
	if state.canBind() {
		return nil
	}
	if state == StmtStateFinalized {
		return misuse(ErrorKindBind, "cannot bind to a finalized statement")
	}
	return misuse(ErrorKindBind, "statement must be reset before binding, it is "+state.Value)
}

// bindResult turns the result code of a bind call into the new state or an
// error carrying the engine message.
func (stmt *Stmt) bindResult(resCode ResultCode) error {
	if resCode != SQLITE_OK {
		return newError(ErrorKindBind, resCode, stmt.conn.ErrorMessage())
	}
	stmt.state = StmtStateBound
	stmt.bound = true
	return nil
}

// BindParameterCount returns the number of SQL parameters of the statement.
//
// https://www.sqlite.org/c3ref/bind_parameter_count.html
func (stmt *Stmt) BindParameterCount() int {
	if stmt.cStmt == nil {
		return 0
	}
	return int(C.sqlite3_bind_parameter_count(stmt.cStmt))
}

// BindParameterIndex returns the index of the parameter with the given name,
// prefix included (":name", "@name", "$name" or "?NNN"). Zero means no
// parameter has that name.
//
// https://www.sqlite.org/c3ref/bind_parameter_index.html
func (stmt *Stmt) BindParameterIndex(name string) int {
	if stmt.cStmt == nil {
		return 0
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return int(C.sqlite3_bind_parameter_index(stmt.cStmt, cName))
}

// BindInt binds a 32-bit int parameter at the given index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindInt(index int, value int32) error {
	if err := stmt.checkBindable(); err != nil {
		return err
	}
	return stmt.bindResult(ResultCode(C.sqlite3_bind_int(stmt.cStmt, C.int(index), C.int(value))))
}

// BindInt64 binds an int64 parameter at the given index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindInt64(index int, value int64) error {
	if err := stmt.checkBindable(); err != nil {
		return err
	}
	return stmt.bindResult(ResultCode(C.sqlite3_bind_int64(stmt.cStmt, C.int(index), C.sqlite3_int64(value))))
}

// BindFloat64 binds a float64 parameter at the given index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindFloat64(index int, value float64) error {
	if err := stmt.checkBindable(); err != nil {
		return err
	}
	return stmt.bindResult(ResultCode(C.sqlite3_bind_double(stmt.cStmt, C.int(index), C.double(value))))
}

// BindText binds a string parameter at the given index. The engine keeps its
// own copy of the value.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindText(index int, value string) error {
	if err := stmt.checkBindable(); err != nil {
		return err
	}
	cStr := C.CString(value)
	defer C.free(unsafe.Pointer(cStr))

	return stmt.bindResult(ResultCode(C.cust_sqlite3_bind_text(stmt.cStmt, C.int(index), cStr, C.int(len(value)))))
}

// BindBlob binds a byte slice parameter at the given index. A nil slice
// binds NULL.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindBlob(index int, data []byte) error {
	if err := stmt.checkBindable(); err != nil {
		return err
	}
	if data == nil {
		return stmt.BindNull(index)
	}
	if len(data) == 0 {
		return stmt.bindResult(ResultCode(C.sqlite3_bind_zeroblob(stmt.cStmt, C.int(index), C.int(0))))
	}

	return stmt.bindResult(ResultCode(C.cust_sqlite3_bind_blob(stmt.cStmt, C.int(index), unsafe.Pointer(&data[0]), C.int(len(data)))))
}

// BindNull binds a NULL value at the given index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindNull(index int) error {
	if err := stmt.checkBindable(); err != nil {
		return err
	}
	return stmt.bindResult(ResultCode(C.sqlite3_bind_null(stmt.cStmt, C.int(index))))
}

// ClearBindings sets every parameter back to NULL.
//
// https://www.sqlite.org/c3ref/clear_bindings.html
func (stmt *Stmt) ClearBindings() error {
	if err := stmt.checkBindable(); err != nil {
		return err
	}
	resCode := ResultCode(C.sqlite3_clear_bindings(stmt.cStmt))
	if resCode != SQLITE_OK {
		return newError(ErrorKindBind, resCode, stmt.conn.ErrorMessage())
	}
	stmt.state = StmtStatePrepared
	stmt.bound = false
	return nil
}

// Step advances the statement to the next row of data, returning true if a
// new row is available, or false if there are no more rows. Any other status
// is returned as an error and leaves the statement failed.
//
// https://www.sqlite.org/c3ref/step.html
func (stmt *Stmt) Step() (bool, error) {
	state := stmt.State()
	if !state.canStep() {
		if state == StmtStateFinalized {
			return false, misuse(ErrorKindStep, "cannot step a finalized statement")
		}
		return false, misuse(ErrorKindStep, "statement must be reset before stepping, it is "+state.Value)
	}

	resCode := ResultCode(C.sqlite3_step(stmt.cStmt))

	switch resCode {
	case SQLITE_ROW:
		stmt.state = StmtStateStepping
		return true, nil
	case SQLITE_DONE:
		stmt.state = StmtStateDone
		return false, nil
	}

	stmt.state = StmtStateFailed
	return false, newError(ErrorKindStep, resCode, stmt.conn.ErrorMessage())
}

// StepDone runs a statement that is expected to produce no rows, such as
// CREATE, INSERT, UPDATE or DELETE. A returned row is an error.
func (stmt *Stmt) StepDone() error {
	hasRow, err := stmt.Step()
	if err != nil {
		return err
	}
	if hasRow {
		stmt.state = StmtStateFailed
		return newError(ErrorKindStep, SQLITE_ROW, "statement returned a row, expected done")
	}
	return nil
}

// Reset puts the statement back to its initial state so it can be stepped
// again. Bindings are kept.
//
// https://www.sqlite.org/c3ref/reset.html
func (stmt *Stmt) Reset() error {
	state := stmt.State()
	if state == StmtStateFinalized {
		return misuse(ErrorKindStep, "cannot reset a finalized statement")
	}

	// sqlite3_reset repeats the error of a failed step, which the caller
	// has already seen.
	resCode := ResultCode(C.sqlite3_reset(stmt.cStmt))
	if resCode != SQLITE_OK && state != StmtStateFailed {
		return newError(ErrorKindStep, resCode, stmt.conn.ErrorMessage())
	}

	stmt.state = StmtStatePrepared
	if stmt.bound {
		stmt.state = StmtStateBound
	}
	return nil
}

// hasRow reports whether column values can be read.
func (stmt *Stmt) hasRow() bool {
	return stmt.cStmt != nil && stmt.state == StmtStateStepping
}

// ColumnCount returns the number of columns in the result set.
//
// https://www.sqlite.org/c3ref/column_count.html
func (stmt *Stmt) ColumnCount() int {
	if stmt.cStmt == nil {
		return 0
	}
	return int(C.sqlite3_column_count(stmt.cStmt))
}

// ColumnName returns the name of the column at the given index.
//
// https://www.sqlite.org/c3ref/column_name.html
func (stmt *Stmt) ColumnName(colIndex int) string {
	if stmt.cStmt == nil {
		return ""
	}
	return C.GoString(C.sqlite3_column_name(stmt.cStmt, C.int(colIndex)))
}

// ColumnDeclType returns the declared type of the column at the given index,
// or an empty string for expressions.
//
// https://www.sqlite.org/c3ref/column_decltype.html
func (stmt *Stmt) ColumnDeclType(colIndex int) string {
	if stmt.cStmt == nil {
		return ""
	}
	return C.GoString(C.sqlite3_column_decltype(stmt.cStmt, C.int(colIndex)))
}

// ColumnType returns the storage class of the value at the given index in
// the current row.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnType(colIndex int) ColumnType {
	if !stmt.hasRow() {
		return SQLITE_NULL
	}
	return ColumnType(C.sqlite3_column_type(stmt.cStmt, C.int(colIndex)))
}

// ColumnInt returns the column value at the given index as a 32-bit int.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnInt(colIndex int) int32 {
	if !stmt.hasRow() {
		return 0
	}
	return int32(C.sqlite3_column_int(stmt.cStmt, C.int(colIndex)))
}

// ColumnInt64 returns the column value at the given index as int64.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnInt64(colIndex int) int64 {
	if !stmt.hasRow() {
		return 0
	}
	return int64(C.sqlite3_column_int64(stmt.cStmt, C.int(colIndex)))
}

// ColumnFloat64 returns the column value at the given index as float64.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnFloat64(colIndex int) float64 {
	if !stmt.hasRow() {
		return 0
	}
	return float64(C.sqlite3_column_double(stmt.cStmt, C.int(colIndex)))
}

// ColumnText returns the column value at the given index as a string.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnText(colIndex int) string {
	if !stmt.hasRow() {
		return ""
	}
	text := (*C.char)(unsafe.Pointer(C.sqlite3_column_text(stmt.cStmt, C.int(colIndex))))
	if text == nil {
		return ""
	}
	length := C.sqlite3_column_bytes(stmt.cStmt, C.int(colIndex))
	return C.GoStringN(text, length)
}

// ColumnBlob returns the column value at the given index as a byte slice.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnBlob(colIndex int) []byte {
	if !stmt.hasRow() {
		return nil
	}
	dataPtr := C.sqlite3_column_blob(stmt.cStmt, C.int(colIndex))
	size := C.sqlite3_column_bytes(stmt.cStmt, C.int(colIndex))
	if dataPtr == nil || size <= 0 {
		return []byte{}
	}
	return C.GoBytes(dataPtr, size)
}

// Finalize frees the resources associated with this statement. The handle
// is released even when an error is returned, and calling Finalize again is
// a no-op.
//
// https://www.sqlite.org/c3ref/finalize.html
func (stmt *Stmt) Finalize() error {
	if stmt.cStmt == nil {
		return nil
	}

	state := stmt.state
	resCode := ResultCode(C.sqlite3_finalize(stmt.cStmt))
	stmt.cStmt = nil
	stmt.state = StmtStateFinalized
	runtime.SetFinalizer(stmt, nil)

	// sqlite3_finalize repeats the error of a failed step.
	if resCode != SQLITE_OK && state != StmtStateFailed {
		return newError(ErrorKindFinalize, resCode, stmt.conn.ErrorMessage())
	}

	return nil
}
