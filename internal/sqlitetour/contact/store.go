package contact

import (
	"errors"
	"fmt"

	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
)

const (
	insertSQL = "INSERT INTO Contact (Id, Name) VALUES (?, ?);"
	byIDSQL   = "SELECT * FROM Contact WHERE Id = ?;"
	allSQL    = "SELECT * FROM Contact ORDER BY Id;"
	updateSQL = "UPDATE Contact SET Name = ? WHERE Id = ?;"
	deleteSQL = "DELETE FROM Contact WHERE Id = ?;"
)

// Store reads and writes contacts on a single connection.
type Store struct {
	conn   *sqlitec.Conn
	logger log.Logger
}

// NewStore returns a Store using the given open connection. The Store does
// not own the connection.
func NewStore(conn *sqlitec.Conn, logger log.Logger) (*Store, error) {
	if conn == nil || conn.State() != sqlitec.ConnStateOpen {
		return nil, errors.New("an open connection is required")
	}
	if !logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	return &Store{conn: conn, logger: logger}, nil
}

// CreateTable runs the CREATE TABLE statement of table.
func (s *Store) CreateTable(table Table) error {
	err := s.conn.WithStmt(table.CreateStatement(), func(stmt *sqlitec.Stmt) error {
		return stmt.StepDone()
	})
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	s.logger.DebugNs(log.NsContact, "table created", log.KV{"table": fmt.Sprintf("%T", table)})
	return nil
}

// bindContact binds id and name to the first two parameters.
func bindContact(stmt *sqlitec.Stmt, c Contact) error {
	if err := stmt.BindInt(1, c.ID); err != nil {
		return err
	}
	return stmt.BindText(2, c.Name)
}

// Insert adds a contact. A duplicate id fails with a step error carrying
// SQLITE_CONSTRAINT.
func (s *Store) Insert(c Contact) error {
	err := s.conn.WithStmt(insertSQL, func(stmt *sqlitec.Stmt) error {
		if err := bindContact(stmt, c); err != nil {
			return err
		}
		return stmt.StepDone()
	})
	if err != nil {
		return fmt.Errorf("failed to insert contact %d: %w", c.ID, err)
	}

	s.logger.DebugNs(log.NsContact, "contact inserted", log.KV{"id": c.ID})
	return nil
}

// InsertMany adds all contacts with a single prepared statement, resetting
// it between rows. It stops at the first failure; rows inserted before it
// are kept.
func (s *Store) InsertMany(contacts []Contact) error {
	err := s.conn.WithStmt(insertSQL, func(stmt *sqlitec.Stmt) error {
		for _, c := range contacts {
			if err := bindContact(stmt, c); err != nil {
				return fmt.Errorf("contact %d: %w", c.ID, err)
			}
			if err := stmt.StepDone(); err != nil {
				return fmt.Errorf("contact %d: %w", c.ID, err)
			}
			if err := stmt.Reset(); err != nil {
				return fmt.Errorf("contact %d: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert contacts: %w", err)
	}

	s.logger.DebugNs(log.NsContact, "contacts inserted", log.KV{"count": len(contacts)})
	return nil
}

// scanContact reads the current row.
func scanContact(stmt *sqlitec.Stmt) Contact {
	return Contact{
		ID:   stmt.ColumnInt(0),
		Name: stmt.ColumnText(1),
	}
}

// ByID returns the contact with the given id. The boolean is false when no
// such contact exists.
func (s *Store) ByID(id int32) (Contact, bool, error) {
	var found Contact
	var ok bool

	err := s.conn.WithStmt(byIDSQL, func(stmt *sqlitec.Stmt) error {
		if err := stmt.BindInt(1, id); err != nil {
			return err
		}

		hasRow, err := stmt.Step()
		if err != nil || !hasRow {
			return err
		}

		found, ok = scanContact(stmt), true
		return nil
	})
	if err != nil {
		return Contact{}, false, fmt.Errorf("failed to query contact %d: %w", id, err)
	}

	return found, ok, nil
}

// All returns every contact ordered by id.
func (s *Store) All() ([]Contact, error) {
	contacts := []Contact{}

	err := s.conn.WithStmt(allSQL, func(stmt *sqlitec.Stmt) error {
		for {
			hasRow, err := stmt.Step()
			if err != nil {
				return err
			}
			if !hasRow {
				return nil
			}
			contacts = append(contacts, scanContact(stmt))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}

	return contacts, nil
}

// UpdateName renames a contact and reports whether it existed.
func (s *Store) UpdateName(id int32, name string) (bool, error) {
	err := s.conn.WithStmt(updateSQL, func(stmt *sqlitec.Stmt) error {
		if err := stmt.BindText(1, name); err != nil {
			return err
		}
		if err := stmt.BindInt(2, id); err != nil {
			return err
		}
		return stmt.StepDone()
	})
	if err != nil {
		return false, fmt.Errorf("failed to update contact %d: %w", id, err)
	}

	updated := s.conn.RowsAffected() > 0
	s.logger.DebugNs(log.NsContact, "contact updated", log.KV{"id": id, "updated": updated})
	return updated, nil
}

// Delete removes a contact and reports whether it existed.
func (s *Store) Delete(id int32) (bool, error) {
	err := s.conn.WithStmt(deleteSQL, func(stmt *sqlitec.Stmt) error {
		if err := stmt.BindInt(1, id); err != nil {
			return err
		}
		return stmt.StepDone()
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete contact %d: %w", id, err)
	}

	deleted := s.conn.RowsAffected() > 0
	s.logger.DebugNs(log.NsContact, "contact deleted", log.KV{"id": id, "deleted": deleted})
	return deleted, nil
}
