package asset_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"kriptomarket/internal/asset"
)

func TestParseSource(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"coingecko", " DexScreener ", "COINCAP"} {
		src, err := asset.ParseSource(in)
		require.NoError(t, err, in)
		require.Contains(t, asset.Sources, src)
	}

	_, err := asset.ParseSource("binance")
	require.EqualError(t, err, `unknown source "binance"`)
	// errors carry the call stack
	require.Contains(t, fmt.Sprintf("%+v", err), "asset.ParseSource")
}
