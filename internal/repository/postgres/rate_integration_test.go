package postgres_test

import (
	"context"
	"testing"
	"time"

	"fxconvert/internal/models"
	"fxconvert/internal/repository"
	"fxconvert/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	tc := testutil.NewTestContext(t)
	ctx := context.Background()

	_, err := tc.RateRepo.LatestSnapshot(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	older := time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 0, 1)
	for _, date := range []time.Time{newer, older} {
		err := tc.RateRepo.SaveSnapshot(ctx, models.RateSnapshot{
			Date:      date,
			FetchedAt: date.Add(17 * time.Hour),
			Rates: []models.EuroRate{
				{CurrencyCode: "USD", Rate: decimal.RequireFromString("1.08"), Date: date},
				{CurrencyCode: "EUR", Rate: decimal.NewFromInt(1), Date: date},
			},
		})
		require.NoError(t, err)
	}

	// Saving the same date again replaces its rates
	err = tc.RateRepo.SaveSnapshot(ctx, models.RateSnapshot{
		Date:      newer,
		FetchedAt: newer.Add(18 * time.Hour),
		Rates:     []models.EuroRate{{CurrencyCode: "USD", Rate: decimal.RequireFromString("1.0823"), Date: newer}},
	})
	require.NoError(t, err)

	latest, err := tc.RateRepo.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-20", latest.Date.Format(models.DateLayout))
	require.Len(t, latest.Rates, 1)
	assert.True(t, latest.Rates[0].Rate.Equal(decimal.RequireFromString("1.0823")))

	tc.CleanupSnapshots()
	_, err = tc.RateRepo.LatestSnapshot(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
