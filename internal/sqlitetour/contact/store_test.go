package contact

import (
	"errors"
	"io"
	"testing"

	"github.com/nsqlite/sqlitetour/internal/log"
	"github.com/nsqlite/sqlitetour/internal/sqlitec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *sqlitec.Conn) {
	t.Helper()

	conn, err := sqlitec.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	store, err := NewStore(conn, log.NewLogger(io.Discard))
	require.NoError(t, err)
	require.NoError(t, store.CreateTable(Contact{}))

	return store, conn
}

func TestNewStore(t *testing.T) {
	_, err := NewStore(nil, log.NewLogger(io.Discard))
	assert.Error(t, err)

	conn, err := sqlitec.Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = NewStore(conn, log.Logger{})
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	t.Run("InsertAndQuery", func(t *testing.T) {
		store, conn := newStore(t)

		require.NoError(t, store.Insert(Contact{ID: 1, Name: "Ray"}))

		got, found, err := store.ByID(1)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, Contact{ID: 1, Name: "Ray"}, got)
		assert.Zero(t, conn.OpenStatements())
	})

	t.Run("MissingID", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Insert(Contact{ID: 1, Name: "Ray"}))

		got, found, err := store.ByID(999)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, Contact{}, got)
	})

	t.Run("Update", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Insert(Contact{ID: 1, Name: "Ray"}))

		updated, err := store.UpdateName(1, "Chris")
		require.NoError(t, err)
		assert.True(t, updated)

		got, found, err := store.ByID(1)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, Contact{ID: 1, Name: "Chris"}, got)

		updated, err = store.UpdateName(999, "Nobody")
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("Delete", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Insert(Contact{ID: 1, Name: "Ray"}))

		deleted, err := store.Delete(1)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, found, err := store.ByID(1)
		require.NoError(t, err)
		assert.False(t, found)

		deleted, err = store.Delete(1)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("InsertMany", func(t *testing.T) {
		store, conn := newStore(t)
		contacts := []Contact{{1, "Ray"}, {2, "Chris"}, {3, "Martha"}, {4, "Danielle"}}

		require.NoError(t, store.InsertMany(contacts))

		all, err := store.All()
		require.NoError(t, err)
		assert.Equal(t, contacts, all)
		assert.Zero(t, conn.OpenStatements())
	})

	t.Run("InsertManyStopsAtDuplicate", func(t *testing.T) {
		store, conn := newStore(t)

		err := store.InsertMany([]Contact{{1, "Ray"}, {1, "Ray again"}, {2, "Chris"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, sqlitec.ErrConstraint))
		assert.Zero(t, conn.OpenStatements())

		all, err := store.All()
		require.NoError(t, err)
		assert.Equal(t, []Contact{{1, "Ray"}}, all)
	})

	t.Run("AllEmpty", func(t *testing.T) {
		store, _ := newStore(t)

		all, err := store.All()
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestStoreFailures(t *testing.T) {
	t.Run("DuplicateInsert", func(t *testing.T) {
		store, conn := newStore(t)
		require.NoError(t, store.Insert(Contact{ID: 1, Name: "Ray"}))

		err := store.Insert(Contact{ID: 1, Name: "Ray"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, sqlitec.ErrStep))
		assert.True(t, errors.Is(err, sqlitec.ErrConstraint))
		assert.Zero(t, conn.OpenStatements())
	})

	t.Run("TableExists", func(t *testing.T) {
		store, conn := newStore(t)

		err := store.CreateTable(Contact{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, sqlitec.ErrPrepare))
		assert.Contains(t, err.Error(), "already exists")
		assert.Zero(t, conn.OpenStatements())
	})

	t.Run("MissingTable", func(t *testing.T) {
		conn, err := sqlitec.Open(":memory:")
		require.NoError(t, err)
		defer conn.Close()

		store, err := NewStore(conn, log.NewLogger(io.Discard))
		require.NoError(t, err)

		_, _, err = store.ByID(1)
		assert.True(t, errors.Is(err, sqlitec.ErrPrepare))

		_, err = store.All()
		assert.True(t, errors.Is(err, sqlitec.ErrPrepare))
		assert.Zero(t, conn.OpenStatements())
	})

	t.Run("ClosedConnection", func(t *testing.T) {
		store, conn := newStore(t)
		require.NoError(t, conn.Close())

		err := store.Insert(Contact{ID: 1, Name: "Ray"})
		assert.True(t, errors.Is(err, sqlitec.ErrMisuse))
	})
}

func TestContact(t *testing.T) {
	c := Contact{ID: 1, Name: "Ray"}
	assert.Equal(t, "1 | Ray", c.String())
	assert.Equal(t, []string{"Id", "Name"}, c.HeaderRow().Names)
	assert.Equal(t, []string{"1", "Ray"}, c.DataRow().Names)
	assert.Contains(t, c.CreateStatement(), "Id INT PRIMARY KEY NOT NULL")
}
