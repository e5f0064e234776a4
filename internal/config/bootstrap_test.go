package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *Database {
	t.Helper()
	db, err := OpenDatabase(DatabaseConfig{
		Driver:   DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "bootstrap.db"),
		PoolSize: 2,
	}, logger.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func count(t *testing.T, db *Database, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.SQL.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestBootstrapper_CreatesAndSeedsOnce(t *testing.T) {
	db := openSQLite(t)
	script, err := DefaultScript(DriverSQLite)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := NewBootstrapper(db.Pool, script).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, first.TablesCreated)
	assert.True(t, first.Seeded)
	assert.Equal(t, 8, first.RowsInserted)
	assert.Equal(t, 5, count(t, db, "livres"))
	assert.Equal(t, 3, count(t, db, "membres"))
	assert.Equal(t, 0, count(t, db, "emprunts"))

	second, err := NewBootstrapper(db.Pool, script).Run(ctx)
	require.NoError(t, err)
	assert.False(t, second.Seeded)
	assert.Equal(t, 5, count(t, db, "livres"))
	assert.Equal(t, 0, db.Pool.Stats().InUse)
}

func TestBootstrapper_SkipsFailingStatements(t *testing.T) {
	db := openSQLite(t)
	script := `
-- broken first table
CREATE TABLE livres (;
CREATE TABLE IF NOT EXISTS livres (id INTEGER PRIMARY KEY, titre TEXT);
DROP TABLE livres;
INSERT INTO livres (titre) VALUES ('Dune');
INSERT INTO missing (x) VALUES (1);
`
	report, err := NewBootstrapper(db.Pool, script).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.TablesCreated)
	assert.Equal(t, 1, report.TablesFailed)
	assert.Equal(t, 1, report.RowsInserted)
	assert.Equal(t, 1, count(t, db, "livres"))
}

func TestDefaultScript(t *testing.T) {
	for _, driver := range []string{DriverMySQL, DriverSQLite} {
		script, err := DefaultScript(driver)
		require.NoError(t, err)
		assert.Len(t, splitStatements(script), 5, driver)
	}

	_, err := DefaultScript("oracle")
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- header\nCREATE TABLE a (x INT);\n\n  -- note\ninsert into a values (1) ;;")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "insert into a values (1)"}, got)
}
