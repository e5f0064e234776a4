// Package storetest opens throwaway SQLite stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"bibliotheque/internal/config"

	"gorm.io/gorm/logger"
)

// Open creates a bootstrapped, empty SQLite store in a temp dir.
// The store is closed when the test ends.
func Open(t testing.TB) *config.Database {
	t.Helper()

	db, err := config.OpenDatabase(config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "bibliotheque.db"),
		PoolSize: 4,
	}, logger.Discard)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	script, err := config.DefaultScript(config.DriverSQLite)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	if _, err := config.NewBootstrapper(db.Pool, script).Run(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	for _, table := range []string{"emprunts", "livres", "membres"} {
		if _, err := db.SQL.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("clear %s: %v", table, err)
		}
	}
	return db
}
