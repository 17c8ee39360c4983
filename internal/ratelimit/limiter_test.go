package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/ratelimit"
)

func TestProviderLimiter_BurstPassesImmediately(t *testing.T) {
	l := ratelimit.NewProviderLimiter(ratelimit.Config{RequestsPerSecond: 1, BurstSize: 3})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(ctx, "open-meteo"))
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestProviderLimiter_ProvidersAreIndependent(t *testing.T) {
	l := ratelimit.NewProviderLimiter(ratelimit.Config{RequestsPerSecond: 0.001, BurstSize: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, l.Wait(ctx, "a"))
	require.NoError(t, l.Wait(ctx, "b"), "b has its own bucket")
	assert.Error(t, l.Wait(ctx, "a"), "a is exhausted and the deadline is too short")
}

func TestProviderLimiter_SetProviderLimit(t *testing.T) {
	l := ratelimit.NewProviderLimiter(ratelimit.Config{RequestsPerSecond: 0.001, BurstSize: 1})
	l.SetProviderLimit("aviationstack", 1000, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Wait(ctx, "aviationstack"))
	}
}
