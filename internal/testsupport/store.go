package testsupport

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"subsync/internal/config"
	"subsync/internal/history"
)

// MustOpenHistory opens the transfer journal for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustOpenSQLite opens a raw connection to an SQLite file so tests can
// tamper with persisted state.
func MustOpenSQLite(t testing.TB, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite %s: %v", path, err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
