// Package contact stores Contact records through the sqlitec wrapper. Every
// operation prepares its own statement and releases it before returning.
package contact

import (
	"fmt"
	"strconv"

	"github.com/nsqlite/sqlitetour/internal/sqlitetour/render"
)

// Contact is the example payload of the tour.
type Contact struct {
	ID   int32
	Name string
}

// String returns "<id> | <name>".
func (c Contact) String() string {
	return fmt.Sprintf("%d | %s", c.ID, c.Name)
}

// HeaderRow implements render.TableRecord.
func (c Contact) HeaderRow() render.Row {
	return render.NewRow("Id", "Name")
}

// DataRow implements render.TableRecord.
func (c Contact) DataRow() render.Row {
	return render.NewRow(strconv.Itoa(int(c.ID)), c.Name)
}

// Table is anything with a CREATE TABLE statement.
type Table interface {
	CreateStatement() string
}

// CreateStatement implements Table.
func (Contact) CreateStatement() string {
	return "CREATE TABLE Contact(" +
		"Id INT PRIMARY KEY NOT NULL," +
		"Name CHAR(255)" +
		");"
}
