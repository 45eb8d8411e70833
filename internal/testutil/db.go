// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"comichub/pkg/database"
)

// OpenDB returns a migrated in-memory database. A single connection is
// forced so every statement sees the same memory store.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`PRAGMA foreign_keys = ON;`)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = db.Close() })
	return db
}
