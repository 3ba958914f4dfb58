package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(nil)

	var got pair
	found, err := c.Get(ctx, "rates:EUR:USD", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "rates:EUR:USD", pair{"EUR", "USD"}, time.Minute))

	found, err = c.Get(ctx, "rates:EUR:USD", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, pair{"EUR", "USD"}, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(nil)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", pair{"EUR", "SEK"}, time.Minute))
	require.NoError(t, c.Set(ctx, "long", pair{"EUR", "NOK"}, time.Hour))

	now = now.Add(2 * time.Minute)

	var got pair
	found, err := c.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = c.Get(ctx, "long", &got)
	require.NoError(t, err)
	assert.True(t, found)

	assert.Equal(t, 1, c.ClearExpired())
	assert.Len(t, c.entries, 1)
}

func TestMemoryCache_DecodeError(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(nil)
	require.NoError(t, c.Set(ctx, "codes", []string{"EUR"}, time.Minute))

	var got pair
	_, err := c.Get(ctx, "codes", &got)
	assert.Error(t, err)
}

func TestMemoryCache_Janitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewMemoryCache(nil)
	require.NoError(t, c.Set(ctx, "gone", pair{}, time.Millisecond))

	c.StartJanitor(ctx, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return len(c.entries) == 0
	}, time.Second, 5*time.Millisecond)
}
