package repository

import (
	"context"

	"fxconvert/internal/models"
)

// RateRepository defines the interface for rate snapshot database operations
type RateRepository interface {
	Repository
	// SaveSnapshot stores a snapshot, replacing any snapshot of the same date
	SaveSnapshot(ctx context.Context, snapshot models.RateSnapshot) error
	// LatestSnapshot returns the snapshot with the most recent date or ErrNotFound
	LatestSnapshot(ctx context.Context) (models.RateSnapshot, error)
	// Ping checks the database connection
	Ping(ctx context.Context) error
}
