package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://not-redis", "fx:", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0", "fx:", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

// TestRedisCache_GetSet runs against a live server when TEST_REDIS_URL is set
func TestRedisCache_GetSet(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "fxconvert-test:", nil)
	require.NoError(t, err)
	defer c.Close()

	key := "rates:" + time.Now().Format(time.RFC3339Nano)
	var got pair
	found, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, key, pair{"EUR", "USD"}, time.Minute))
	found, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, pair{"EUR", "USD"}, got)
}
