// Package testutil provides utilities for testing
package testutil

import (
	"database/sql"
	"testing"

	"fxconvert/internal/config"
	"fxconvert/internal/repository"
	"fxconvert/internal/repository/postgres"
	"fxconvert/internal/testutil/db"
	"fxconvert/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestContext holds common test dependencies
type TestContext struct {
	T        *testing.T
	DB       *sql.DB
	Config   *config.Config
	RateRepo repository.RateRepository
}

// NewTestContext creates a test context backed by the test database
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validation.Initialize()

	cfg := db.LoadTestConfig(t)
	testDB := db.SetupTestDB(t, &cfg.Database)

	return &TestContext{
		T:        t,
		DB:       testDB,
		Config:   cfg,
		RateRepo: postgres.NewRateRepository(testDB),
	}
}

// ExecuteSQL runs a statement and fails the test on error
func (tc *TestContext) ExecuteSQL(query string, args ...any) {
	tc.T.Helper()
	_, err := tc.DB.Exec(query, args...)
	require.NoError(tc.T, err, "Failed to execute %q", query)
}

// CleanupSnapshots removes all stored rate snapshots
func (tc *TestContext) CleanupSnapshots() {
	tc.T.Helper()
	tc.ExecuteSQL("DELETE FROM rate_snapshots")
}
