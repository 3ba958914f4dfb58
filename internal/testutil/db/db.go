// Package db provides database utilities for testing
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"fxconvert/internal/config"
	"fxconvert/internal/database"

	"github.com/stretchr/testify/require"
)

// CleanupTestDB drops all tables in the test database
func CleanupTestDB(db *sql.DB) error {
	rows, err := db.Query(`
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
	`)
	if err != nil {
		return fmt.Errorf("failed to get table names: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over table names: %w", err)
	}

	if len(tables) == 0 {
		return nil
	}

	dropQuery := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", strings.Join(tables, ", "))
	if _, err := db.Exec(dropQuery); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return nil
}

// SetupTestDB returns a migrated, empty test database. The test is skipped when
// the database cannot be reached.
func SetupTestDB(t *testing.T, cfg *config.DatabaseConfig) *sql.DB {
	t.Helper()

	db, err := database.Connect(*cfg)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	require.NoError(t, CleanupTestDB(db), "Failed to cleanup test database")

	var tableCount int
	err = db.QueryRow(`SELECT COUNT(*) FROM pg_tables WHERE schemaname = 'public'`).Scan(&tableCount)
	require.NoError(t, err, "Failed to count tables")
	require.Equal(t, 0, tableCount, "Database should be empty before running migrations")

	// Run migrations using the same setup as the main app
	require.NoError(t, database.RunMigrations(*cfg), "Failed to run migrations")

	return db
}
