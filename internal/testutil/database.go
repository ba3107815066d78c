package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migration files.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Favorite links
		CREATE TABLE favorite_fund (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			fund_code VARCHAR(6) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_favorite_fund UNIQUE (user_id, fund_code)
		);

		-- Monitor links
		CREATE TABLE monitor_fund (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			fund_code VARCHAR(6) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_monitor_fund UNIQUE (user_id, fund_code)
		);

		-- Alert rules
		CREATE TABLE monitor_rule (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			fund_code VARCHAR(6) NOT NULL,
			rule_name VARCHAR(100) NOT NULL,
			rise_threshold FLOAT,
			net_worth_threshold FLOAT,
			push_time VARCHAR(5),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Delivery targets
		CREATE TABLE notification_setting (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL UNIQUE,
			channel VARCHAR(10) NOT NULL,
			webhook_url TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Delivery audit trail
		CREATE TABLE push_log (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			rule_id VARCHAR(36) NOT NULL,
			fund_code VARCHAR(6) NOT NULL,
			triggered BOOLEAN NOT NULL,
			message TEXT NOT NULL,
			delivery_error TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_monitor_rule_user ON monitor_rule (user_id);
		CREATE INDEX IF NOT EXISTS idx_monitor_rule_push_time ON monitor_rule (push_time);
		CREATE INDEX IF NOT EXISTS idx_push_log_user ON push_log (user_id, created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	tables := []string{
		"push_log",
		"notification_setting",
		"monitor_rule",
		"monitor_fund",
		"favorite_fund",
	}

	for _, table := range tables {
		//nolint:gosec // G202: Table names are from hardcoded slice, no SQL injection risk
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "favorite_fund", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
