package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/bizdesk/internal/db"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestGateway returns a gateway over a fresh in-memory database.
func NewTestGateway(t *testing.T, opts ...gateway.Option) (*gateway.SQLiteGateway, *sql.DB) {
	t.Helper()
	database := NewTestDB(t)
	return gateway.NewSQLiteGateway(database, opts...), database
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
