package sqlitedrv

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactTableSQL = "CREATE TABLE Contact(Id INT PRIMARY KEY NOT NULL, Name CHAR(255));"

func openDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "driver.sqlite")
	db, err := sql.Open(DriverName, path)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(contactTableSQL)
	require.NoError(t, err)

	return db, path
}

// openStatements counts the statements left open on the single connection.
func openStatements(t *testing.T, db *sql.DB) int {
	t.Helper()

	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	count := 0
	err = conn.Raw(func(driverConn any) error {
		count = driverConn.(*Conn).RawConn().OpenStatements()
		return nil
	})
	require.NoError(t, err)
	return count
}

func TestDriver(t *testing.T) {
	t.Run("InsertAndQuery", func(t *testing.T) {
		db, _ := openDB(t)

		res, err := db.Exec("INSERT INTO Contact (Id, Name) VALUES (?, ?);", 1, "Ray")
		require.NoError(t, err)
		affected, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		lastID, err := res.LastInsertId()
		require.NoError(t, err)
		assert.Equal(t, int64(1), lastID)

		var name string
		err = db.QueryRow("SELECT Name FROM Contact WHERE Id = ?;", 1).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, "Ray", name)

		err = db.QueryRow("SELECT Name FROM Contact WHERE Id = ?;", 999).Scan(&name)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		assert.Zero(t, openStatements(t, db))
	})

	t.Run("PreparedStatementReuse", func(t *testing.T) {
		db, _ := openDB(t)

		stmt, err := db.Prepare("INSERT INTO Contact (Id, Name) VALUES (?, ?);")
		require.NoError(t, err)
		for i, name := range []string{"Ray", "Chris", "Martha", "Danielle"} {
			_, err := stmt.Exec(i+1, name)
			require.NoError(t, err)
		}
		require.NoError(t, stmt.Close())

		rows, err := db.Query("SELECT Id, Name FROM Contact ORDER BY Id;")
		require.NoError(t, err)
		defer rows.Close()

		cols, err := rows.Columns()
		require.NoError(t, err)
		assert.Equal(t, []string{"Id", "Name"}, cols)

		types, err := rows.ColumnTypes()
		require.NoError(t, err)
		assert.Equal(t, "INT", types[0].DatabaseTypeName())

		names := []string{}
		for rows.Next() {
			var id int64
			var name string
			require.NoError(t, rows.Scan(&id, &name))
			names = append(names, name)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{"Ray", "Chris", "Martha", "Danielle"}, names)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		db, _ := openDB(t)
		_, err := db.Exec("INSERT INTO Contact (Id, Name) VALUES (?, ?), (?, ?);", 1, "Ray", 2, "Martha")
		require.NoError(t, err)

		res, err := db.Exec("UPDATE Contact SET Name = ? WHERE Id = ?;", "Chris", 1)
		require.NoError(t, err)
		affected, _ := res.RowsAffected()
		assert.Equal(t, int64(1), affected)

		res, err = db.Exec("DELETE FROM Contact WHERE Id = ?;", 999)
		require.NoError(t, err)
		affected, _ = res.RowsAffected()
		assert.Zero(t, affected)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM Contact;").Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("MultipleStatements", func(t *testing.T) {
		db, _ := openDB(t)

		res, err := db.Exec("INSERT INTO Contact VALUES (1, 'Ray'); INSERT INTO Contact VALUES (2, 'Chris');")
		require.NoError(t, err)
		affected, _ := res.RowsAffected()
		assert.Equal(t, int64(2), affected)
	})

	t.Run("ValueTypes", func(t *testing.T) {
		db, _ := openDB(t)
		_, err := db.Exec("CREATE TABLE Value(i INTEGER, f REAL, t TEXT, b BLOB, n TEXT);")
		require.NoError(t, err)

		_, err = db.Exec("INSERT INTO Value VALUES (?, ?, ?, ?, ?);", int64(42), 1.5, "text", []byte{0xca, 0xfe}, nil)
		require.NoError(t, err)

		var (
			i int64
			f float64
			s string
			b []byte
			n sql.NullString
		)
		err = db.QueryRow("SELECT * FROM Value;").Scan(&i, &f, &s, &b, &n)
		require.NoError(t, err)
		assert.Equal(t, int64(42), i)
		assert.Equal(t, 1.5, f)
		assert.Equal(t, "text", s)
		assert.Equal(t, []byte{0xca, 0xfe}, b)
		assert.False(t, n.Valid)
	})
}

func TestDriverErrors(t *testing.T) {
	db, _ := openDB(t)

	_, err := db.Exec("INSERT INTO Contact (Id, Name) VALUES (?, ?);", 1, "Ray")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO Contact (Id, Name) VALUES (?, ?);", 1, "Ray")
	assert.ErrorIs(t, err, sqlitec.ErrStep)
	assert.ErrorIs(t, err, sqlitec.ErrConstraint)

	_, err = db.Query("SELECT Stuff from Things WHERE Whatever;")
	assert.ErrorIs(t, err, sqlitec.ErrPrepare)

	_, err = db.Exec("SELECT * FROM Contact WHERE Id = :id;", sql.Named("id", 1))
	assert.ErrorIs(t, err, ErrNamedParameter)

	_, err = db.Exec("SELECT * FROM Contact WHERE Id = ?;", struct{}{})
	assert.Error(t, err)

	assert.Zero(t, openStatements(t, db))
}

func TestTransactions(t *testing.T) {
	db, _ := openDB(t)

	t.Run("Commit", func(t *testing.T) {
		tx, err := db.Begin()
		require.NoError(t, err)
		_, err = tx.Exec("INSERT INTO Contact (Id, Name) VALUES (?, ?);", 1, "Ray")
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM Contact;").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("Rollback", func(t *testing.T) {
		tx, err := db.Begin()
		require.NoError(t, err)
		_, err = tx.Exec("INSERT INTO Contact (Id, Name) VALUES (?, ?);", 2, "Chris")
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM Contact;").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("UnsupportedOptions", func(t *testing.T) {
		_, err := db.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
		assert.Error(t, err)

		_, err = db.BeginTx(context.Background(), &sql.TxOptions{ReadOnly: true})
		assert.Error(t, err)
	})
}

func TestConnector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connector.sqlite")

	db := sql.OpenDB(NewConnector(path, WithPostConnectQueries([]string{
		"PRAGMA foreign_keys = ON;",
		contactTableSQL,
	})))
	defer db.Close()
	db.SetMaxOpenConns(1)

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys;").Scan(&enabled))
	assert.Equal(t, 1, enabled)

	_, err := db.Exec("INSERT INTO Contact (Id, Name) VALUES (?, ?);", 1, "Ray")
	assert.NoError(t, err)

	bad := sql.OpenDB(NewConnector(path, WithPostConnectQueries([]string{"NOT SQL;"})))
	defer bad.Close()
	assert.Error(t, bad.Ping())
}

func TestInteropWithMattn(t *testing.T) {
	db, path := openDB(t)
	_, err := db.Exec("INSERT INTO Contact (Id, Name) VALUES (?, ?);", 1, "Ray")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	mattn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer mattn.Close()

	var name string
	require.NoError(t, mattn.QueryRow("SELECT Name FROM Contact WHERE Id = ?;", 1).Scan(&name))
	assert.Equal(t, "Ray", name)
}
