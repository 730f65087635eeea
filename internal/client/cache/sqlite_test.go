package cache

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:cachetest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
DELETE FROM kv;
`)
	require.NoError(t, err)
	return db
}

func TestSQLite_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	c := NewSQLite(setupDB(t))

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, c.Set(ctx, "k", []byte(`{"a":1}`)))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"a":1}`), got)

	// overwrite
	require.NoError(t, c.Set(ctx, "k", []byte(`{"a":2}`)))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"a":2}`), got)

	require.NoError(t, c.Remove(ctx, "k"))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSQLite_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewSQLite(setupDB(t))

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	require.NoError(t, c.Clear(ctx))

	for _, k := range []string{"a", "b"} {
		got, err := c.Get(ctx, k)
		require.NoError(t, err)
		require.Nil(t, got)
	}
}

func TestMemory_BehavesLikeSQLite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	got, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	// mutating the returned slice must not affect the stored value
	got[0] = 'x'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), again)

	require.NoError(t, m.Remove(ctx, "k"))
	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, got)
}
