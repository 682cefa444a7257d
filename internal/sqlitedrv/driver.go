// Package sqlitedrv provides a database/sql/driver implementation for the
// sqlitec wrapper, registered as "sqlitec".
//
// Only positional parameters are supported. A connection must not be shared
// between goroutines, which database/sql already guarantees.
package sqlitedrv

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/nsqlite/sqlitetour/internal/sqlitec"
)

// DriverName is the name the driver is registered with.
const DriverName = "sqlitec"

var (
	_ driver.Driver                         = (*Driver)(nil)
	_ driver.Conn                           = (*Conn)(nil)
	_ driver.ConnBeginTx                    = (*Conn)(nil)
	_ driver.ExecerContext                  = (*Conn)(nil)
	_ driver.Validator                      = (*Conn)(nil)
	_ driver.SessionResetter                = (*Conn)(nil)
	_ driver.Connector                      = (*Connector)(nil)
	_ driver.StmtExecContext                = (*Stmt)(nil)
	_ driver.StmtQueryContext               = (*Stmt)(nil)
	_ driver.Tx                             = (*Tx)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName = (*Rows)(nil)
)

func init() {
	sql.Register(DriverName, &Driver{})
}

// Driver implements the database/sql/driver interface
type Driver struct{}

// Open creates a new connection to the SQLite database at dsn.
func (driver *Driver) Open(dsn string) (driver.Conn, error) {
	connector := NewConnector(dsn)
	return connector.Connect(context.Background())
}

type connectorOption func(*Connector)

// WithPostConnectQueries sets a slice of queries to be executed after a
// connection is established
func WithPostConnectQueries(queries []string) connectorOption {
	return func(connector *Connector) {
		connector.postConnectQueries = queries
	}
}

// Connector implements the database/sql/driver.Connector interface
type Connector struct {
	dsn                string
	postConnectQueries []string
}

// NewConnector creates a new connector to the SQLite database, to be used
// with sql.OpenDB.
func NewConnector(dsn string, options ...connectorOption) driver.Connector {
	connector := &Connector{
		dsn: dsn,
	}

	for _, option := range options {
		option(connector)
	}

	return connector
}

// Connect creates a new connection to the SQLite database
func (connector *Connector) Connect(_ context.Context) (driver.Conn, error) {
	return newConn(connector.dsn, connector.postConnectQueries)
}

// Driver returns the driver
func (connector *Connector) Driver() driver.Driver {
	return &Driver{}
}

// Conn implements the database/sql/driver.Conn interface
type Conn struct {
	conn *sqlitec.Conn
}

// newConn creates a new connection to the SQLite database
func newConn(dsn string, postConnectQueries []string) (*Conn, error) {
	conn, err := sqlitec.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	for _, query := range postConnectQueries {
		if err := conn.Exec(query); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf(`failed to execute "%s" post-connect query: %w`, query, err)
		}
	}

	return &Conn{
		conn: conn,
	}, nil
}

// RawConn returns the underlying SQLite C API connection
func (conn *Conn) RawConn() *sqlitec.Conn {
	return conn.conn
}

// Close closes the connection to the SQLite database
func (conn *Conn) Close() error {
	if err := conn.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Prepare compiles the first statement of query.
func (conn *Conn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := conn.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &Stmt{conn: conn, stmt: stmt}, nil
}

// ExecContext runs queries without arguments directly, which allows several
// statements separated by semicolons. Queries with arguments go through
// Prepare.
func (conn *Conn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if len(args) > 0 {
		return nil, driver.ErrSkip
	}

	before := conn.conn.TotalChanges()
	if err := conn.conn.Exec(query); err != nil {
		return nil, err
	}

	return &Result{
		lastInsertID: conn.conn.LastInsertRowID(),
		rowsAffected: conn.conn.TotalChanges() - before,
	}, nil
}

// Begin starts a deferred transaction.
func (conn *Conn) Begin() (driver.Tx, error) {
	return conn.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx starts a deferred transaction. Only the default isolation level is
// supported and read-only transactions are rejected.
func (conn *Conn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if opts.Isolation != driver.IsolationLevel(sql.LevelDefault) {
		return nil, errors.New("isolation levels are not supported")
	}
	if opts.ReadOnly {
		return nil, errors.New("read-only transactions are not supported")
	}

	if err := conn.conn.Exec("BEGIN DEFERRED;"); err != nil {
		return nil, err
	}
	return &Tx{conn: conn}, nil
}

// ResetSession marks the connection bad once it is no longer open.
func (conn *Conn) ResetSession(_ context.Context) error {
	if !conn.IsValid() {
		return driver.ErrBadConn
	}
	return nil
}

// IsValid reports whether the connection is still open.
func (conn *Conn) IsValid() bool {
	return conn.conn.State() == sqlitec.ConnStateOpen
}

// Tx implements the database/sql/driver.Tx interface
type Tx struct {
	conn *Conn
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return tx.conn.conn.Exec("COMMIT;")
}

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error {
	return tx.conn.conn.Exec("ROLLBACK;")
}

// Result implements the database/sql/driver.Result interface
type Result struct {
	lastInsertID int64
	rowsAffected int64
}

// LastInsertId returns the rowid of the last inserted row.
func (res *Result) LastInsertId() (int64, error) {
	return res.lastInsertID, nil
}

// RowsAffected returns the number of rows changed by the statement.
func (res *Result) RowsAffected() (int64, error) {
	return res.rowsAffected, nil
}
