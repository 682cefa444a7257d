package tour

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTour(t *testing.T, dir string) (*Tour, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	tour, err := New(Config{
		Logger:    log.NewLogger(io.Discard),
		Directory: dir,
		Out:       out,
	})
	require.NoError(t, err)

	return tour, out
}

// assertInOrder checks that every want appears in out after the previous one.
func assertInOrder(t *testing.T, out string, want ...string) {
	t.Helper()

	rest := out
	for _, w := range want {
		i := strings.Index(rest, w)
		if !assert.GreaterOrEqual(t, i, 0, "missing %q in output:\n%s", w, out) {
			return
		}
		rest = rest[i+len(w):]
	}
}

func TestNew(t *testing.T) {
	_, err := New(Config{Directory: t.TempDir()})
	assert.Error(t, err)

	_, err = New(Config{Logger: log.NewLogger(io.Discard)})
	assert.Error(t, err)

	tour, err := New(Config{Logger: log.NewLogger(io.Discard), Directory: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, tour.Out)
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "Part1.sqlite"), DatabasePart1.Path("data"))
	assert.Equal(t, filepath.Join("data", "Part2.sqlite"), DatabasePart2.Path("data"))
	assert.Len(t, Databases.Members(), 2)
}

func TestDestroy(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Destroy(dir, DatabasePart1))

	path := DatabasePart1.Path(dir)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))
	require.NoError(t, Destroy(dir, DatabasePart1))
	assert.NoFileExists(t, path)
}

func TestPart1(t *testing.T) {
	dir := t.TempDir()
	tour, out := newTour(t, dir)

	require.NoError(t, tour.Part1())
	assert.FileExists(t, DatabasePart1.Path(dir))

	assertInOrder(t, out.String(),
		"Successfully opened connection to database at",
		"Contact table created.",
		"Successfully inserted row.",
		"Successfully inserted row.",
		"Successfully inserted row.",
		"Successfully inserted row.",
		"Query Result:", "1 | Ray",
		"2 | Chris", "3 | Martha", "4 | Danielle",
		"Successfully updated row.",
		"1 | Chris",
		"Successfully deleted row.",
		"2 | Chris",
		"Query could not be prepared! no such table: Things",
	)
	assert.NotContains(t, out.String(), "could not be created")

	t.Run("RunsAgainOnCleanDatabase", func(t *testing.T) {
		out.Reset()
		require.NoError(t, tour.Part1())
		assert.Contains(t, out.String(), "Contact table created.")
		assert.Equal(t, 4, strings.Count(out.String(), "Successfully inserted row."))
	})
}

func TestPart1LeavesDeletedRowOut(t *testing.T) {
	dir := t.TempDir()
	tour, _ := newTour(t, dir)
	require.NoError(t, tour.Part1())

	conn, err := sqlitec.Open(DatabasePart1.Path(dir))
	require.NoError(t, err)
	defer conn.Close()

	res, err := conn.Query("SELECT Id, Name FROM Contact ORDER BY Id;", nil)
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{int64(2), "Chris"},
		{int64(3), "Martha"},
		{int64(4), "Danielle"},
	}, res.Rows)
}

func TestPart2(t *testing.T) {
	dir := t.TempDir()
	tour, out := newTour(t, dir)

	require.NoError(t, tour.Part2())
	assert.FileExists(t, DatabasePart2.Path(dir))

	assertInOrder(t, out.String(),
		"Successfully opened connection to database.",
		"Create Table", "Contact table created.",
		"Insert Row", "Successfully inserted row.",
		"Read Row", "1 | Ray", "No contact with Id 999.",
		"Update Row", "Successfully updated row.", "1 | Chris",
		"Insert Rows", "Successfully inserted rows.", "Martha", "Danielle",
		"Delete Row", "Successfully deleted row.", "No contact with Id 1.",
		"Errors", "Query could not be prepared! no such table: Things",
		"SQLITE_ERROR",
	)

	require.NoError(t, tour.Part2(), "a second run starts from a clean database")
}

func TestMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "SQLiteTutorial")

	for _, run := range []struct {
		name string
		part func(*Tour) error
	}{
		{"Part1", (*Tour).Part1},
		{"Part2", (*Tour).Part2},
	} {
		t.Run(run.name, func(t *testing.T) {
			tour, out := newTour(t, dir)

			err := run.part(tour)
			require.Error(t, err)
			assert.ErrorIs(t, err, sqlitec.ErrOpen)
			assert.Contains(t, out.String(), openHint)
			assert.NoDirExists(t, dir)
		})
	}
}
