package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_PerMinuteWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	client := newTestClient(t, mr, 0)

	limiter, err := NewRateLimiter(client, "openweather", NewRateLimiterOptions().WithMaxTransactionsPerMinute(2))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		id, err := limiter.Acquire(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}

	_, err = limiter.Acquire(ctx)
	assert.ErrorIs(t, err, ErrRateLimited)

	_, perMinute, err := limiter.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), perMinute)

	require.NoError(t, limiter.Cleanup(ctx))
	_, err = limiter.Acquire(ctx)
	assert.NoError(t, err)
}

func TestRateLimiter_RequiresALimit(t *testing.T) {
	mr := miniredis.RunT(t)
	_, err := NewRateLimiter(newTestClient(t, mr, 0), "newsapi", NewRateLimiterOptions())
	assert.Error(t, err)
}
