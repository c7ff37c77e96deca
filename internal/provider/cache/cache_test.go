package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
	"kriptomarket/internal/provider/cache"
	"kriptomarket/internal/provider/providertest"
)

func TestFetch_CachesPerRequest(t *testing.T) {
	t.Parallel()

	// Arrange
	fake := providertest.New("cg", asset.SourceCoinGecko, providertest.Market("bitcoin", "btc", "Bitcoin", 1))
	c := &cache.Provider{P: fake, TTL: time.Minute}

	// Act: same request twice, then a different page
	_, err := c.Fetch(t.Context(), provider.Request{Limit: 10, Page: 1})
	require.NoError(t, err)
	recs, err := c.Fetch(t.Context(), provider.Request{Limit: 10, Page: 1})
	require.NoError(t, err)
	_, err = c.Fetch(t.Context(), provider.Request{Limit: 10, Page: 2})
	require.NoError(t, err)

	// Assert
	require.Len(t, recs, 1)
	require.Equal(t, 2, fake.Calls())
	require.Equal(t, "cg", c.Name())
	require.Equal(t, asset.SourceCoinGecko, c.Source())
}

func TestFetch_ServesStaleOnError(t *testing.T) {
	t.Parallel()

	// Arrange: warm the cache, then expire it and break the upstream
	fake := providertest.New("cg", asset.SourceCoinGecko, providertest.Market("bitcoin", "btc", "Bitcoin", 1))
	c := &cache.Provider{P: fake, TTL: 20 * time.Millisecond}
	_, err := c.Fetch(t.Context(), provider.Request{})
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	fake.Set(nil, &provider.FetchError{Provider: "cg", StatusCode: 503, Err: errors.New("down")})

	// Act
	recs, err := c.Fetch(t.Context(), provider.Request{})

	// Assert
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, 2, fake.Calls())
}

func TestFetch_ErrorWithoutCache(t *testing.T) {
	t.Parallel()

	fake := providertest.New("cg", asset.SourceCoinGecko)
	fake.Set(nil, &provider.FetchError{Provider: "cg", Err: errors.New("down")})
	c := &cache.Provider{P: fake, TTL: time.Minute}

	_, err := c.Fetch(t.Context(), provider.Request{})
	require.True(t, errors.Is(err, provider.ErrFetchFailed))
}

func TestFetch_NoTTLPassesThrough(t *testing.T) {
	t.Parallel()

	fake := providertest.New("cg", asset.SourceCoinGecko)
	c := &cache.Provider{P: fake}
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(t.Context(), provider.Request{})
		require.NoError(t, err)
	}
	require.Equal(t, 3, fake.Calls())
}

func TestFetch_MaxItems(t *testing.T) {
	t.Parallel()

	fake := providertest.New("cg", asset.SourceCoinGecko)
	c := &cache.Provider{P: fake, TTL: time.Minute, MaxItems: 2}
	for page := 1; page <= 3; page++ {
		_, err := c.Fetch(t.Context(), provider.Request{Page: page})
		require.NoError(t, err)
	}

	// the most recent entry always survives eviction
	_, err := c.Fetch(t.Context(), provider.Request{Page: 3})
	require.NoError(t, err)
	require.Equal(t, 3, fake.Calls())
}

func TestFetchDetail(t *testing.T) {
	t.Parallel()

	// Arrange
	fake := providertest.New("cg", asset.SourceCoinGecko)
	fake.DetailFunc = func(_ context.Context, ref asset.Ref) (normalize.DetailRecord, error) {
		if ref.ID == "missing" {
			return nil, provider.NewFetchError("cg", errors.Wrap(provider.ErrNotFound, "missing"))
		}
		return normalize.CoinGeckoCoin{ID: ref.ID, Symbol: "btc", Name: "Bitcoin"}, nil
	}
	c := &cache.Provider{P: fake, TTL: time.Minute}
	ref := asset.Ref{Source: asset.SourceCoinGecko, ID: "bitcoin"}

	// Act
	for i := 0; i < 3; i++ {
		rec, err := c.FetchDetail(t.Context(), ref)
		require.NoError(t, err)
		require.Equal(t, "bitcoin", rec.(normalize.CoinGeckoCoin).ID)
	}
	_, err := c.FetchDetail(t.Context(), asset.Ref{Source: asset.SourceCoinGecko, ID: "missing"})

	// Assert
	require.True(t, provider.IsNotFound(err))
	require.Equal(t, 2, fake.DetailCalls())
}

func TestFetchDetail_Unsupported(t *testing.T) {
	t.Parallel()

	c := &cache.Provider{P: listingOnly{}, TTL: time.Minute}
	_, err := c.FetchDetail(t.Context(), asset.Ref{ID: "x"})
	require.ErrorIs(t, err, provider.ErrDetailUnsupported)
}

type listingOnly struct{}

func (listingOnly) Name() string         { return "listing" }
func (listingOnly) Source() asset.Source { return asset.SourceCoinCap }
func (listingOnly) Fetch(context.Context, provider.Request) ([]normalize.Record, error) {
	return nil, errors.New("unused")
}
