package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/provider"
	"kriptomarket/internal/provider/providertest"
	"kriptomarket/internal/provider/ratelimit"
)

func TestMinInterval_SpacesCalls(t *testing.T) {
	t.Parallel()

	// Arrange
	fake := providertest.New("dex", asset.SourceDexScreener)
	m := &ratelimit.MinInterval{P: fake, Interval: 30 * time.Millisecond}

	// Act: three concurrent calls
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Fetch(t.Context(), provider.Request{})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	// Assert: the third call waits for two intervals
	require.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
	require.Equal(t, 3, fake.Calls())
	require.Equal(t, asset.SourceDexScreener, m.Source())
}

func TestMinInterval_ContextCanceled(t *testing.T) {
	t.Parallel()

	fake := providertest.New("dex", asset.SourceDexScreener)
	m := &ratelimit.MinInterval{P: fake, Interval: time.Hour}
	_, err := m.Fetch(t.Context(), provider.Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = m.FetchDetail(ctx, asset.Ref{ID: "x"})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, fake.DetailCalls())
}

func TestTokenBucketProvider_Burst(t *testing.T) {
	t.Parallel()

	// Arrange: burst of 2, then one token per 50ms
	fake := providertest.New("cc", asset.SourceCoinCap)
	p := &ratelimit.TokenBucketProvider{P: fake, TB: ratelimit.NewTokenBucket(20, 2)}

	// Act
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := p.Fetch(t.Context(), provider.Request{})
		require.NoError(t, err)
	}

	// Assert
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	require.Equal(t, 3, fake.Calls())
}

func TestTokenBucketProvider_DetailForwarded(t *testing.T) {
	t.Parallel()

	fake := providertest.New("cc", asset.SourceCoinCap)
	p := &ratelimit.TokenBucketProvider{P: fake, TB: ratelimit.NewTokenBucket(100, 1)}

	_, err := p.FetchDetail(t.Context(), asset.Ref{ID: "bitcoin"})
	require.ErrorIs(t, err, provider.ErrDetailUnsupported)
	require.Equal(t, 1, fake.DetailCalls())
}

func TestTokenBucket_WaitCanceled(t *testing.T) {
	t.Parallel()

	tb := ratelimit.NewTokenBucket(0.001, 1)
	require.NoError(t, tb.Wait(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)
}
