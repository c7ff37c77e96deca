package dexscreener_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
	"kriptomarket/internal/provider/dexscreener"
)

func pairJSON(chain, addr, symbol string) string {
	return fmt.Sprintf(`{"chainId":%q,"dexId":"uniswap","pairAddress":%q,"baseToken":{"address":"0xb%s","name":"%s Token","symbol":%q},"quoteToken":{"symbol":"WETH"},"priceUsd":"1.5","liquidity":{"usd":1000}}`,
		chain, addr, addr, symbol, symbol)
}

func TestFetch_Search(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/latest/dex/search", r.URL.Path)
		require.Equal(t, "pepe", r.URL.Query().Get("q"))
		fmt.Fprintf(w, `{"schemaVersion":"1.0.0","pairs":[%s,%s,{"pairAddress":7}]}`,
			pairJSON("ethereum", "0x1", "PEPE"), pairJSON("bsc", "0x2", "PEPE2"))
	}))
	defer srv.Close()

	p := dexscreener.New(dexscreener.Config{URL: srv.URL}, srv.Client())

	// Act
	records, err := p.Fetch(t.Context(), provider.Request{Query: "pepe"})

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 3)
	first, ok := records[0].(normalize.DexPair)
	require.True(t, ok)
	require.Equal(t, "0x1", first.PairAddress)
	_, ok = records[2].(normalize.Undecodable)
	require.True(t, ok)
	require.Equal(t, asset.SourceDexScreener, p.Source())
}

func TestFetch_DefaultQueryAndLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "*", r.URL.Query().Get("q"))
		fmt.Fprintf(w, `{"pairs":[%s,%s]}`, pairJSON("ethereum", "0x1", "A"), pairJSON("ethereum", "0x2", "B"))
	}))
	defer srv.Close()

	p := dexscreener.New(dexscreener.Config{URL: srv.URL}, srv.Client())

	records, err := p.Fetch(t.Context(), provider.Request{Limit: 1})
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestFetch_NullPairs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"schemaVersion":"1.0.0","pairs":null}`))
	}))
	defer srv.Close()

	records, err := dexscreener.New(dexscreener.Config{URL: srv.URL}, srv.Client()).
		Fetch(t.Context(), provider.Request{Query: "nothing"})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestFetch_TokensChunked(t *testing.T) {
	t.Parallel()

	// Arrange: 65 distinct addresses plus blanks and a duplicate
	tokens := []string{"", " "}
	for i := 0; i < 65; i++ {
		tokens = append(tokens, fmt.Sprintf("0xt%02d", i))
	}
	tokens = append(tokens, "0XT00")

	var (
		mu    sync.Mutex
		sizes []int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/latest/dex/tokens/"))
		addrs := strings.Split(strings.TrimPrefix(r.URL.Path, "/latest/dex/tokens/"), ",")
		mu.Lock()
		sizes = append(sizes, len(addrs))
		mu.Unlock()
		// one pair per chunk, keyed by the chunk's first address
		fmt.Fprintf(w, `{"pairs":[%s]}`, pairJSON("ethereum", "pair-"+addrs[0], "T"))
	}))
	defer srv.Close()

	p := dexscreener.New(dexscreener.Config{URL: srv.URL, Parallel: 2}, srv.Client())

	// Act
	records, err := p.Fetch(t.Context(), provider.Request{Tokens: tokens})

	// Assert: 30 + 30 + 5, results in chunk order
	require.NoError(t, err)
	require.ElementsMatch(t, []int{30, 30, 5}, sizes)
	require.Len(t, records, 3)
	require.Equal(t, "pair-0xt00", records[0].(normalize.DexPair).PairAddress)
	require.Equal(t, "pair-0xt30", records[1].(normalize.DexPair).PairAddress)
	require.Equal(t, "pair-0xt60", records[2].(normalize.DexPair).PairAddress)
}

func TestFetch_TokensChunkFailureFailsCall(t *testing.T) {
	t.Parallel()

	tokens := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		tokens = append(tokens, fmt.Sprintf("0x%02d", i))
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "0x30") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"pairs":[]}`))
	}))
	defer srv.Close()

	records, err := dexscreener.New(dexscreener.Config{Name: "dex", URL: srv.URL}, srv.Client()).
		Fetch(t.Context(), provider.Request{Tokens: tokens})

	require.Nil(t, records)
	require.True(t, errors.Is(err, provider.ErrFetchFailed))
	require.Equal(t, http.StatusInternalServerError, provider.StatusCode(err))
}

func TestFetchDetail_ByChain(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/latest/dex/pairs/ethereum/0xabc", r.URL.Path)
		fmt.Fprintf(w, `{"pairs":[%s],"pair":%s}`, pairJSON("ethereum", "0xAbC", "PEPE"), pairJSON("ethereum", "0xAbC", "PEPE"))
	}))
	defer srv.Close()

	p := dexscreener.New(dexscreener.Config{URL: srv.URL}, srv.Client())

	// Act
	rec, err := p.FetchDetail(t.Context(), asset.Ref{Source: asset.SourceDexScreener, ID: "0xabc", Chain: "ethereum"})

	// Assert: addresses compare case-insensitively
	require.NoError(t, err)
	require.Equal(t, "0xAbC", rec.(normalize.DexPair).PairAddress)
}

func TestFetchDetail_BySearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/latest/dex/search", r.URL.Path)
		require.Equal(t, "0x2", r.URL.Query().Get("q"))
		fmt.Fprintf(w, `{"pairs":[%s,%s]}`, pairJSON("bsc", "0x1", "A"), pairJSON("bsc", "0x2", "B"))
	}))
	defer srv.Close()

	rec, err := dexscreener.New(dexscreener.Config{URL: srv.URL}, srv.Client()).
		FetchDetail(t.Context(), asset.Ref{Source: asset.SourceDexScreener, ID: "0x2"})
	require.NoError(t, err)
	require.Equal(t, "bsc", rec.(normalize.DexPair).ChainID)
}

func TestFetchDetail_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pairs":null,"pair":null}`))
	}))
	defer srv.Close()

	rec, err := dexscreener.New(dexscreener.Config{URL: srv.URL}, srv.Client()).
		FetchDetail(t.Context(), asset.Ref{Source: asset.SourceDexScreener, ID: "0xdead", Chain: "ethereum"})
	require.Nil(t, rec)
	require.True(t, provider.IsNotFound(err))
	require.True(t, errors.Is(err, provider.ErrFetchFailed))
}
