package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sorrel/pkg/logging"
)

func openMemory(t *testing.T) DB {
	t.Helper()
	db, err := Connect(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:"}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(context.Background(), `CREATE TABLE items (id TEXT PRIMARY KEY, name TEXT NOT NULL, tags TEXT NOT NULL DEFAULT '[]')`)
	require.NoError(t, err)
	return db
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), Config{Driver: "oracle"}, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestJSONBScan(t *testing.T) {
	var v JSONB[[]string]
	require.NoError(t, v.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, []string{"a", "b"}, v.GetValue())

	require.NoError(t, v.Scan(`["c"]`))
	assert.Equal(t, []string{"c"}, v.GetValue())

	require.NoError(t, v.Scan(nil))
	assert.Nil(t, v.GetValue())

	assert.Error(t, v.Scan(42))

	value, err := JSONB[[]string]{Data: []string{"x"}}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, value)
}

func TestUpsertWithFlavor(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	insert := func(name string, tags []string) {
		ib := NewInsertBuilder(Flavor(db.DriverName())).
			InsertInto("items").
			Cols("id", "name", "tags").
			Values("i-1", name, JSONB[[]string]{Data: tags})
		ib.OnConflictUpdate([]string{"id"}, "name", "tags")
		query, args := ib.Build()
		_, err := db.ExecContext(ctx, query, args...)
		require.NoError(t, err)
	}

	insert("first", []string{"a"})
	insert("second", []string{"b", "c"})

	var row struct {
		Name string          `db:"name"`
		Tags JSONB[[]string] `db:"tags"`
	}
	sb := NewSelectBuilder(Flavor(db.DriverName()))
	sb.Select("name", "tags").From("items").Where(sb.Equal("id", "i-1"))
	query, args := sb.Build()
	require.NoError(t, db.GetContext(ctx, &row, query, args...))

	assert.Equal(t, "second", row.Name)
	assert.Equal(t, []string{"b", "c"}, row.Tags.GetValue())
}

func TestTransactionRollbackAndCommit(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	txCtx, tx, err := db.GetTx(ctx, nil)
	require.NoError(t, err)

	// a nested GetTx joins the open transaction
	joinedCtx, joined, err := db.GetTx(txCtx, nil)
	require.NoError(t, err)
	assert.Same(t, tx, joined)

	_, err = joined.ExecContext(joinedCtx, `INSERT INTO items (id, name) VALUES ('i-1', 'rolled back')`)
	require.NoError(t, err)
	require.NoError(t, joined.Commit(joinedCtx))
	assert.True(t, tx.IsOpen())

	require.NoError(t, tx.Rollback(txCtx))
	assert.False(t, tx.IsOpen())
	require.NoError(t, tx.Rollback(txCtx))

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM items`))
	assert.Equal(t, 0, count)

	txCtx, tx, err = db.GetTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(txCtx, `INSERT INTO items (id, name) VALUES ('i-2', 'kept')`)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(txCtx))
	require.NoError(t, tx.Rollback(txCtx))

	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM items`))
	assert.Equal(t, 1, count)
}

func TestGetLatestVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000001_a.up.sql", "000001_a.down.sql", "000003_c.up.sql", "000002_b.up.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}

	latest, err := getLatestVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, latest)

	_, err = getLatestVersion(t.TempDir())
	assert.Error(t, err)
}
