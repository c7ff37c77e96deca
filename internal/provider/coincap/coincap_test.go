package coincap_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
	"kriptomarket/internal/provider/coincap"
)

const assetsResponse = `{"data":[
  {"id":"bitcoin","rank":"1","symbol":"BTC","name":"Bitcoin","supply":"19700000.0","marketCapUsd":"1260000000000.5","volumeUsd24Hr":"9000000000","priceUsd":"64000.12","changePercent24Hr":"-0.5","explorer":"https://blockchain.info/"},
  {"id":"solana","rank":"5","symbol":"SOL","name":"Solana","supply":null,"priceUsd":"150.3"},
  {"id":1}
],"timestamp":1718000000000}`

func TestFetch(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/assets", r.URL.Path)
		require.Equal(t, "20", r.URL.Query().Get("limit"))
		require.Equal(t, "40", r.URL.Query().Get("offset"))
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(assetsResponse))
	}))
	defer srv.Close()

	p := coincap.New(coincap.Config{URL: srv.URL + "/v3/", APIKey: "secret"}, srv.Client())

	// Act
	records, err := p.Fetch(t.Context(), provider.Request{Limit: 20, Page: 3})

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 3)
	btc, ok := records[0].(normalize.CoinCapAsset)
	require.True(t, ok)
	require.Equal(t, "bitcoin", btc.ID)
	_, ok = records[2].(normalize.Undecodable)
	require.True(t, ok)

	assets, dropped := normalize.Batch(records, normalize.DefaultOptions())
	require.Equal(t, 1, dropped)
	require.Len(t, assets, 2)
	require.Equal(t, asset.SourceCoinCap, assets[1].Source)
}

func TestFetch_DefaultsWithoutKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		require.Equal(t, "100", r.URL.Query().Get("limit"))
		require.Equal(t, "0", r.URL.Query().Get("offset"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	records, err := coincap.New(coincap.Config{URL: srv.URL}, srv.Client()).Fetch(t.Context(), provider.Request{})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestFetch_Unauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	records, err := coincap.New(coincap.Config{URL: srv.URL}, srv.Client()).Fetch(t.Context(), provider.Request{})
	require.Nil(t, records)
	require.True(t, errors.Is(err, provider.ErrFetchFailed))
	require.Equal(t, http.StatusUnauthorized, provider.StatusCode(err))
}

func TestFetch_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := coincap.New(coincap.Config{URL: url}, http.DefaultClient).Fetch(t.Context(), provider.Request{})
	require.True(t, errors.Is(err, provider.ErrFetchFailed))
	require.Zero(t, provider.StatusCode(err))
}

func TestFetchDetail(t *testing.T) {
	t.Parallel()

	// Arrange
	mux := http.NewServeMux()
	mux.HandleFunc("/assets/bitcoin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"bitcoin","rank":"1","symbol":"BTC","name":"Bitcoin","priceUsd":"64000","explorer":"https://blockchain.info/"}}`))
	})
	mux.HandleFunc("/assets/bitcoin/markets", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "50", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[
		  {"exchangeId":"binance","baseSymbol":"BTC","quoteSymbol":"USDT","priceUsd":"64001","volumeUsd24Hr":"1000"},
		  {"exchangeId":"binance","baseSymbol":"BTC","quoteSymbol":"FDUSD","priceUsd":"64002"},
		  {"exchangeId":"gdax","baseSymbol":"BTC","quoteSymbol":"USD","priceUsd":"63999"}
		]}`))
	})
	mux.HandleFunc("/exchanges", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"exchangeId":"binance","name":"Binance","rank":"1","exchangeUrl":"https://www.binance.com/"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := coincap.New(coincap.Config{URL: srv.URL}, srv.Client())

	// Act
	rec, err := p.FetchDetail(t.Context(), asset.Ref{Source: asset.SourceCoinCap, ID: "bitcoin"})
	require.NoError(t, err)
	d, err := normalize.NormalizeDetail(rec, normalize.DefaultOptions())
	require.NoError(t, err)

	// Assert: one venue per exchange, first ticker wins
	require.Equal(t, "bitcoin", d.ID)
	require.Len(t, d.Venues, 2)
	require.Equal(t, "binance", d.Venues[0].ID)
	require.Equal(t, "Binance", d.Venues[0].Name)
	require.Equal(t, "USDT", d.Venues[0].Quote)
	require.Equal(t, "coinbase", d.Venues[1].ID)
}

func TestFetchDetail_ExchangesOptional(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/assets/eth", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"eth","symbol":"ETH","name":"Ethereum"}}`))
	})
	mux.HandleFunc("/assets/eth/markets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/exchanges", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec, err := coincap.New(coincap.Config{URL: srv.URL}, srv.Client()).
		FetchDetail(t.Context(), asset.Ref{Source: asset.SourceCoinCap, ID: "eth"})
	require.NoError(t, err)
	require.Empty(t, rec.(normalize.CoinCapDetail).Exchanges)
}

func TestFetchDetail_MarketsRequired(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/assets/eth", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"eth","symbol":"ETH","name":"Ethereum"}}`))
	})
	mux.HandleFunc("/assets/eth/markets", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/exchanges", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec, err := coincap.New(coincap.Config{URL: srv.URL}, srv.Client()).
		FetchDetail(t.Context(), asset.Ref{Source: asset.SourceCoinCap, ID: "eth"})
	require.Nil(t, rec)
	require.Equal(t, http.StatusServiceUnavailable, provider.StatusCode(err))
}

func TestFetchDetail_NotFound(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/assets/nope", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"nope not found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/assets/nope/markets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/exchanges", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := coincap.New(coincap.Config{URL: srv.URL}, srv.Client()).
		FetchDetail(t.Context(), asset.Ref{Source: asset.SourceCoinCap, ID: "nope"})
	require.True(t, provider.IsNotFound(err))
}
