package sqlitetourbench

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nsqlite/sqlitetour/internal/sqlitedrv"
)

// benchDriver is a database/sql driver under benchmark.
type benchDriver struct {
	title      string
	driverName string
}

var benchDrivers = []benchDriver{
	{title: "mattn/go-sqlite3", driverName: "sqlite3"},
	{title: "sqlitec", driverName: sqlitedrv.DriverName},
}

// open creates the database of the driver in its own directory under dir.
// The pool is pinned to one connection.
func (d benchDriver) open(dir string) (*sql.DB, string, error) {
	dbPath := filepath.Join(dir, d.driverName, "bench.sqlite")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, "", err
	}

	db, err := sql.Open(d.driverName, dbPath)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to ping %s database: %w", d.title, err)
	}

	return db, dbPath, nil
}
