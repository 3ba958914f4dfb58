package database

import (
	"testing"

	"fxconvert/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		DBName:   "fxconvert",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://postgres:secret@db:5432/fxconvert?sslmode=disable", MigrationURL(cfg))
}

func TestRunMigrations_MissingDirectory(t *testing.T) {
	err := RunMigrations(config.DatabaseConfig{MigrationsPath: t.TempDir() + "/missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory does not exist")
}
