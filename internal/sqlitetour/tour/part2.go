package tour

import (
	"errors"
	"fmt"

	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
	"github.com/nsqlite/sqlitetour/internal/sqlitetour/contact"
	"github.com/nsqlite/sqlitetour/internal/sqlitetour/render"
)

// missingContactID is never inserted by the walkthrough.
const missingContactID int32 = 999

// Part2 tells the story of Part1 again over the contact store. Every
// statement is released by the store, and any unexpected failure stops the
// walkthrough with a wrapped *sqlitec.Error.
func (t *Tour) Part2() (err error) {
	t.destroy(DatabasePart2)
	path := DatabasePart2.Path(t.Directory)

	conn, err := sqlitec.Open(path)
	if err != nil {
		t.printf("%s", openHint)
		return fmt.Errorf("part 2: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("part 2: %w", closeErr)
		}
	}()
	t.printf("Successfully opened connection to database.")
	t.Logger.InfoNs(log.NsTour, "database opened", log.KV{"part": DatabasePart2.Value, "path": path})

	store, err := contact.NewStore(conn, t.Logger)
	if err != nil {
		return fmt.Errorf("part 2: %w", err)
	}

	steps := []struct {
		title string
		run   func(*contact.Store) error
	}{
		{"Create Table", t.part2CreateTable},
		{"Insert Row", t.part2Insert},
		{"Read Row", t.part2Read},
		{"Update Row", t.part2Update},
		{"Insert Rows", t.part2InsertMany},
		{"Delete Row", t.part2Delete},
		{"Errors", func(*contact.Store) error { return t.part2Malformed(conn) }},
	}

	for _, step := range steps {
		t.printf("")
		render.DimmedColor().Fprintln(t.Out, "-- "+step.title)
		if err := step.run(store); err != nil {
			return fmt.Errorf("part 2: %w", err)
		}
	}

	return nil
}

func (t *Tour) part2CreateTable(store *contact.Store) error {
	if err := store.CreateTable(contact.Contact{}); err != nil {
		return err
	}
	t.printf("Contact table created.")
	return nil
}

func (t *Tour) part2Insert(store *contact.Store) error {
	if err := store.Insert(contact.Contact{ID: 1, Name: "Ray"}); err != nil {
		return err
	}
	t.printf("Successfully inserted row.")
	return nil
}

// part2Show prints the contact with id, or a notice when there is none.
func (t *Tour) part2Show(store *contact.Store, id int32) error {
	c, found, err := store.ByID(id)
	if err != nil {
		return err
	}
	if !found {
		t.printf("No contact with Id %d.", id)
		return nil
	}

	t.printf("Query Result:")
	t.printf("%s", c)
	t.printf("%s", render.Record(c))
	return nil
}

func (t *Tour) part2Read(store *contact.Store) error {
	if err := t.part2Show(store, 1); err != nil {
		return err
	}
	return t.part2Show(store, missingContactID)
}

func (t *Tour) part2Update(store *contact.Store) error {
	updated, err := store.UpdateName(1, "Chris")
	if err != nil {
		return err
	}
	if !updated {
		return errors.New("contact 1 was not updated")
	}

	t.printf("Successfully updated row.")
	return t.part2Show(store, 1)
}

func (t *Tour) part2InsertMany(store *contact.Store) error {
	err := store.InsertMany([]contact.Contact{
		{ID: 2, Name: "Martha"},
		{ID: 3, Name: "Danielle"},
	})
	if err != nil {
		return err
	}

	all, err := store.All()
	if err != nil {
		return err
	}

	t.printf("Successfully inserted rows.")
	if view, ok := render.Records(all); ok {
		t.printf("%s", view)
	}
	return nil
}

func (t *Tour) part2Delete(store *contact.Store) error {
	deleted, err := store.Delete(1)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.New("contact 1 was not deleted")
	}

	t.printf("Successfully deleted row.")
	return t.part2Show(store, 1)
}

// part2Malformed shows that a malformed query never yields a statement and
// that the failure is a typed prepare error.
func (t *Tour) part2Malformed(conn *sqlitec.Conn) error {
	stmt, err := conn.Prepare(part1MalformedSQL)
	if err == nil {
		_ = stmt.Finalize()
		return errors.New("malformed query was prepared")
	}

	var sqliteErr *sqlitec.Error
	if !errors.As(err, &sqliteErr) || !errors.Is(err, sqlitec.ErrPrepare) {
		return err
	}

	t.printf("Query could not be prepared! %s", sqliteErr.Message)
	t.printf("%s", render.DimmedColor().Sprint(sqliteErr.Code.String()))
	return nil
}
