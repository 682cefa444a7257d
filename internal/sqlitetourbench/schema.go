package sqlitetourbench

import (
	"database/sql"

	"github.com/nsqlite/sqlitetour/internal/sqlitetour/contact"
)

// recreateSchema drops the contact table and creates it again.
func recreateSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`DROP TABLE IF EXISTS Contact`,
		contact.Contact{}.CreateStatement(),
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}

	return nil
}
