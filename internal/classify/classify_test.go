package classify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/classify"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		asset  asset.Asset
		expect asset.Category
	}{
		{"doge by name", asset.Asset{Name: "Dogecoin", Symbol: "DOGE"}, asset.CategoryMeme},
		{"shiba by name", asset.Asset{Name: "Shiba Inu", Symbol: "SHIB"}, asset.CategoryMeme},
		{"wif by symbol", asset.Asset{Name: "dogwifhat", Symbol: "WIF"}, asset.CategoryMeme},
		{"pepe by name only", asset.Asset{Name: "PepeCoin Classic", Symbol: "PCC"}, asset.CategoryMeme},
		{"bonk by symbol", asset.Asset{Name: "Bonk", Symbol: "BONK"}, asset.CategoryMeme},
		{"ai suffix", asset.Asset{Name: "Fetch.ai", Symbol: "FET"}, asset.CategoryAI},
		{"ai phrase", asset.Asset{Name: "Artificial Intelligence Token", Symbol: "AIT"}, asset.CategoryAI},
		{"ai substring inside a word", asset.Asset{Name: "Chainlink", Symbol: "LINK"}, asset.CategoryAI},
		{"ai prefix", asset.Asset{Name: "Aioz Network", Symbol: "AIOZ"}, asset.CategoryAI},
		{"ai upper-case", asset.Asset{Name: "AI16Z", Symbol: "AI16Z"}, asset.CategoryAI},
		{"ai inside gpt brand", asset.Asset{Name: "ChainGPT", Symbol: "CGPT"}, asset.CategoryAI},
		{"ai in symbol only is not enough", asset.Asset{Name: "Render", Symbol: "RNDRAI"}, asset.CategoryOther},
		{"layer1", asset.Asset{Name: "Bitcoin", Symbol: "BTC"}, asset.CategoryLayer1},
		{"layer1 lower-case symbol", asset.Asset{Name: "Solana", Symbol: "sol"}, asset.CategoryLayer1},
		{"layer2", asset.Asset{Name: "Arbitrum", Symbol: "ARB"}, asset.CategoryLayer2},
		{"layer2 optimism", asset.Asset{Name: "Optimism", Symbol: "OP"}, asset.CategoryLayer2},
		{"fallback", asset.Asset{Name: "Tether", Symbol: "USDT"}, asset.CategoryOther},
		{"empty", asset.Asset{}, asset.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expect, classify.Classify(tt.asset))
		})
	}
}

func TestClassify_MemeBeatsAI(t *testing.T) {
	t.Parallel()

	// Arrange: an asset that matches both the meme and the AI keyword sets
	a := asset.Asset{Name: "Doge AI", Symbol: "DOGEAI"}

	// Act & Assert
	require.Equal(t, asset.CategoryMeme, classify.Classify(a))
}

func TestClassify_AlwaysAssignable(t *testing.T) {
	t.Parallel()

	assets := []asset.Asset{
		{Name: "Pepe", Symbol: "PEPE"},
		{Name: "Render", Symbol: "RNDR"},
		{Name: "Ethereum", Symbol: "ETH"},
		{Name: "Polygon", Symbol: "MATIC"},
	}
	classify.Apply(assets)

	for _, a := range assets {
		require.Contains(t, asset.Categories, a.Category)
		require.NotEqual(t, asset.CategoryAll, a.Category)
		// re-running is stable
		require.Equal(t, a.Category, classify.Classify(a))
	}
}
