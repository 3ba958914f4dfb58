package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fxconvert/internal/models"
	"fxconvert/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type rateRepository struct {
	repository.BaseRepository
}

// NewRateRepository creates a new PostgreSQL rate snapshot repository
func NewRateRepository(db *sql.DB) repository.RateRepository {
	return &rateRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *rateRepository) SaveSnapshot(ctx context.Context, snapshot models.RateSnapshot) error {
	return r.Transaction(ctx, func(tx *sql.Tx) error {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO rate_snapshots (id, rate_date, fetched_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (rate_date) DO UPDATE
			SET fetched_at = EXCLUDED.fetched_at
			RETURNING id`,
			uuid.New(),
			snapshot.Date,
			snapshot.FetchedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to upsert snapshot: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM euro_rates WHERE snapshot_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear snapshot rates: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO euro_rates (snapshot_id, currency_code, rate, rate_date)
			VALUES ($1, $2, $3, $4)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, rate := range snapshot.Rates {
			if _, err := stmt.ExecContext(ctx, id, rate.CurrencyCode, rate.Rate, rate.Date); err != nil {
				if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
					return fmt.Errorf("%w: duplicate rate for %s", repository.ErrConflict, rate.CurrencyCode)
				}
				return fmt.Errorf("failed to insert rate for %s: %w", rate.CurrencyCode, err)
			}
		}
		return nil
	})
}

func (r *rateRepository) LatestSnapshot(ctx context.Context) (models.RateSnapshot, error) {
	var (
		id       uuid.UUID
		snapshot models.RateSnapshot
	)
	err := r.DB().QueryRowContext(ctx, `
		SELECT id, rate_date, fetched_at
		FROM rate_snapshots
		ORDER BY rate_date DESC
		LIMIT 1`,
	).Scan(&id, &snapshot.Date, &snapshot.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RateSnapshot{}, repository.ErrNotFound
	}
	if err != nil {
		return models.RateSnapshot{}, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	rows, err := r.DB().QueryContext(ctx, `
		SELECT currency_code, rate, rate_date
		FROM euro_rates
		WHERE snapshot_id = $1
		ORDER BY currency_code`,
		id,
	)
	if err != nil {
		return models.RateSnapshot{}, fmt.Errorf("failed to query snapshot rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rate  models.EuroRate
			value decimal.Decimal
		)
		if err := rows.Scan(&rate.CurrencyCode, &value, &rate.Date); err != nil {
			return models.RateSnapshot{}, fmt.Errorf("failed to scan rate: %w", err)
		}
		rate.Rate = value
		snapshot.Rates = append(snapshot.Rates, rate)
	}
	if err := rows.Err(); err != nil {
		return models.RateSnapshot{}, fmt.Errorf("failed to read snapshot rates: %w", err)
	}

	return snapshot, nil
}

func (r *rateRepository) Ping(ctx context.Context) error {
	return r.DB().PingContext(ctx)
}
