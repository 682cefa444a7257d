package tour

import (
	"fmt"

	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
)

const (
	part1CreateTableSQL = "CREATE TABLE Contact(" +
		"Id INT PRIMARY KEY NOT NULL," + "Name CHAR(255));"
	part1InsertSQL    = "INSERT INTO Contact (Id, Name) VALUES (?, ?);"
	part1QuerySQL     = "SELECT * FROM Contact;"
	part1UpdateSQL    = "UPDATE Contact SET Name = 'Chris' WHERE Id = 1;"
	part1DeleteSQL    = "DELETE FROM Contact WHERE Id = 1;"
	part1MalformedSQL = "SELECT Stuff from Things WHERE Whatever;"
)

var part1Names = []string{"Ray", "Chris", "Martha", "Danielle"}

// Part1 walks through the C API one call at a time. Statements are
// finalized by hand after every step, and a failing step is reported and
// skipped. Only a failure to open or close the database ends the
// walkthrough with an error.
func (t *Tour) Part1() error {
	t.destroy(DatabasePart1)
	path := DatabasePart1.Path(t.Directory)

	conn, err := sqlitec.Open(path)
	if err != nil {
		t.printf("%s", openHint)
		return fmt.Errorf("part 1: %w", err)
	}
	t.printf("Successfully opened connection to database at %s", path)
	t.Logger.InfoNs(log.NsTour, "database opened", log.KV{"part": DatabasePart1.Value, "path": path})

	t.part1CreateTable(conn)
	t.part1Insert(conn)
	t.part1Query(conn)
	t.part1Exec(conn, part1UpdateSQL, "UPDATE", "Successfully updated row.", "Could not update row.")
	t.part1Query(conn)
	t.part1Exec(conn, part1DeleteSQL, "DELETE", "Successfully deleted row.", "Could not delete row.")
	t.part1Query(conn)
	t.part1PrepareMalformedQuery(conn)

	if err := conn.Close(); err != nil {
		return fmt.Errorf("part 1: %w", err)
	}
	t.Logger.InfoNs(log.NsTour, "database closed", log.KV{"part": DatabasePart1.Value})
	return nil
}

// warn logs a step failure of the walkthrough.
func (t *Tour) warn(msg string, err error) {
	t.Logger.WarnNs(log.NsTour, msg, log.KV{"error": err})
}

func (t *Tour) part1CreateTable(conn *sqlitec.Conn) {
	stmt, err := conn.Prepare(part1CreateTableSQL)
	if err != nil {
		t.printf("CREATE TABLE statement could not be prepared.")
		t.warn("prepare failed", err)
		return
	}

	if err := stmt.StepDone(); err != nil {
		t.printf("Contact table could not be created.")
		t.warn("step failed", err)
	} else {
		t.printf("Contact table created.")
	}

	// Avoid resource leaks
	_ = stmt.Finalize()
}

func (t *Tour) part1Insert(conn *sqlitec.Conn) {
	t.printf("")

	stmt, err := conn.Prepare(part1InsertSQL)
	if err != nil {
		t.printf("INSERT statement could not be prepared.")
		t.warn("prepare failed", err)
		return
	}

	for i, name := range part1Names {
		id := int32(i + 1)
		if err := stmt.BindInt(1, id); err != nil {
			t.printf("Could not bind Id %d.", id)
			t.warn("bind failed", err)
		}
		if err := stmt.BindText(2, name); err != nil {
			t.printf("Could not bind Name %s.", name)
			t.warn("bind failed", err)
		}

		if err := stmt.StepDone(); err != nil {
			t.printf("Could not insert row.")
			t.warn("step failed", err)
		} else {
			t.printf("Successfully inserted row.")
		}

		// Reset for the next row, the bindings are replaced above.
		_ = stmt.Reset()
	}

	_ = stmt.Finalize()
}

func (t *Tour) part1Query(conn *sqlitec.Conn) {
	t.printf("")

	stmt, err := conn.Prepare(part1QuerySQL)
	if err != nil {
		t.printf("SELECT statement could not be prepared")
		t.warn("prepare failed", err)
		return
	}

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			t.warn("step failed", err)
			break
		}
		if !hasRow {
			break
		}

		id := stmt.ColumnInt(0)
		name := stmt.ColumnText(1)

		t.printf("Query Result:")
		t.printf("%d | %s", id, name)
	}

	_ = stmt.Finalize()
}

// part1Exec runs a statement with no parameters and no result rows.
func (t *Tour) part1Exec(conn *sqlitec.Conn, query, verb, okMsg, failMsg string) {
	stmt, err := conn.Prepare(query)
	if err != nil {
		t.printf("%s statement could not be prepared", verb)
		t.warn("prepare failed", err)
		return
	}

	if err := stmt.StepDone(); err != nil {
		t.printf("%s", failMsg)
		t.warn("step failed", err)
	} else {
		t.printf("%s", okMsg)
	}

	_ = stmt.Finalize()
}

func (t *Tour) part1PrepareMalformedQuery(conn *sqlitec.Conn) {
	t.printf("")

	stmt, err := conn.Prepare(part1MalformedSQL)
	if err == nil {
		t.printf("This should not have happened.")
		_ = stmt.Finalize()
		return
	}

	t.printf("Query could not be prepared! %s", conn.ErrorMessage())
}
