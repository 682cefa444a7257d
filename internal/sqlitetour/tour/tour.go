// Package tour runs the two walkthroughs of the SQLite tour: part 1 drives
// the C API by hand, part 2 goes through the contact store and its typed
// errors.
package tour

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/orsinium-labs/enum"
)

// openHint is printed when the database of a part cannot be opened.
const openHint = "Unable to open database. Verify that you created the directory described in the Getting Started section."

// Database is one of the database files used by the tour.
type Database enum.Member[string]

var (
	DatabasePart1 = Database{Value: "Part1"}
	DatabasePart2 = Database{Value: "Part2"}

	Databases = enum.New(DatabasePart1, DatabasePart2)
)

// Path returns the database file of db inside the tutorial directory.
func (db Database) Path(dir string) string {
	return filepath.Join(dir, db.Value+".sqlite")
}

// Destroy removes the database file of db so the next run starts from an
// empty database. A missing file is not an error.
func Destroy(dir string, db Database) error {
	err := os.Remove(db.Path(dir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not destroy %s database file: %w", db.Value, err)
	}
	return nil
}

// Config represents the configuration for a Tour.
type Config struct {
	// Logger is the shared logger.
	Logger log.Logger
	// Directory holds the tour database files. It must already exist.
	Directory string
	// Out receives the tour output, defaults to os.Stdout.
	Out io.Writer
}

// Tour runs the walkthroughs.
type Tour struct {
	Config
}

// New creates a new Tour.
func New(config Config) (*Tour, error) {
	if !config.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if config.Directory == "" {
		return nil, errors.New("tutorial directory is required")
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}

	return &Tour{Config: config}, nil
}

// printf writes a line of tour output.
func (t *Tour) printf(format string, args ...any) {
	fmt.Fprintf(t.Out, format+"\n", args...)
}

// destroy resets the database of a part, reporting but not failing when the
// file cannot be removed.
func (t *Tour) destroy(db Database) {
	if err := Destroy(t.Directory, db); err != nil {
		t.printf("Could not destroy %s Database file.", db.Value)
		t.Logger.WarnNs(log.NsTour, "could not destroy database", log.KV{"error": err})
	}
}
