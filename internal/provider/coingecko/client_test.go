package coingecko_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kriptomarket/internal/provider/coingecko"
)

func TestNewCoinGeckoAPIClient_DemoKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "with key", key: "demo", want: "demo"},
		{name: "keyless", key: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().
				Do(gomock.Any()).
				DoAndReturn(func(req *http.Request) (*http.Response, error) {
					require.Equal(t, tt.want, req.Header.Get("x-cg-demo-api-key"))
					return okResponse(`[]`), nil
				}).
				Times(1)

			client, err := coingecko.NewCoinGeckoAPIClient(tt.key, coingecko.WithHTTPClient(httpClient))
			require.NoError(t, err)

			// Act
			_, err = client.GetExchanges(t.Context())

			// Assert
			require.NoError(t, err)
		})
	}
}

func TestGetCoin(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/api/v3/coins/ethereum", req.URL.Path)
			require.Equal(t, "true", req.URL.Query().Get("market_data"))
			require.Equal(t, "false", req.URL.Query().Get("community_data"))
			return okResponse(mockCoinResponse), nil
		}).
		Times(1)
	client, err := coingecko.NewCoinGeckoAPIClient("", coingecko.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act
	coin, err := client.GetCoin(t.Context(), " ethereum ")

	// Assert
	require.NoError(t, err)
	require.Equal(t, "ethereum", coin.ID)
	require.Len(t, coin.Tickers, 1)
}

func TestGetCoin_EmptyID(t *testing.T) {
	t.Parallel()

	client, err := coingecko.NewCoinGeckoAPIClient("")
	require.NoError(t, err)

	_, err = client.GetCoin(t.Context(), "  ")

	require.ErrorContains(t, err, "coin id is empty")
}
