package aggregate

import (
	"testing"

	"kriptomarket/internal/asset"
)

func TestNormalizeVenueID_Aliases(t *testing.T) {
	cases := map[string]string{
		"GDAX":     "coinbase",
		" okex ":   "okx",
		"Huobi":    "htx",
		"binance":  "binance",
		"gate.io":  "gate-io",
		"":         "",
		"Kraken ":  "kraken",
	}
	for in, want := range cases {
		if got := NormalizeVenueID(in); got != want {
			t.Fatalf("NormalizeVenueID(%q)=%q want %q", in, got, want)
		}
	}
}

func TestMergeAssets_FirstSeenWins(t *testing.T) {
	cg := []asset.Asset{
		{ID: "bitcoin", Symbol: "BTC", Source: asset.SourceCoinGecko},
		{ID: "ethereum", Symbol: "ETH", Source: asset.SourceCoinGecko},
	}
	cc := []asset.Asset{
		{ID: "bitcoin", Symbol: "BTC", Source: asset.SourceCoinCap},
		{ID: "solana", Symbol: "SOL", Source: asset.SourceCoinCap},
	}
	out := MergeAssets(cg, cc)
	if len(out) != 3 {
		t.Fatalf("want 3 assets, got %d: %+v", len(out), out)
	}
	if out[0].ID != "bitcoin" || out[0].Source != asset.SourceCoinGecko {
		t.Fatalf("first-seen bitcoin should come from coingecko: %+v", out[0])
	}
	if out[2].ID != "solana" {
		t.Fatalf("order not preserved: %+v", out)
	}
}

func TestMergeAssets_SameSymbolDifferentIDsKept(t *testing.T) {
	listing := []asset.Asset{{ID: "bitcoin", Symbol: "BTC"}}
	pairs := []asset.Asset{{ID: "0xpair", Symbol: "BTC", Pair: &asset.Pair{Address: "0xpair"}}}
	out := MergeAssets(listing, pairs)
	if len(out) != 2 {
		t.Fatalf("pair and listing must not collapse by symbol: %+v", out)
	}
}

func TestJoinVenues_DedupeAndMetadata(t *testing.T) {
	venues := []asset.Venue{
		{ID: "binance", Base: "BTC", Quote: "USDT"},
		{ID: "Binance", Base: "BTC", Quote: "FDUSD"},
		{ID: "gdax", Base: "BTC", Quote: "USD"},
		{ID: "", Base: "BTC", Quote: "EUR"},
		{ID: "kraken", Name: "Kraken Pro", Base: "BTC", Quote: "EUR"},
	}
	infos := []asset.VenueInfo{
		{ID: "binance", Name: "Binance", LogoURL: "https://img/binance.png", Kind: asset.VenueCentralized},
		{ID: "coinbase", Name: "Coinbase Exchange", LogoURL: "https://img/cb.png"},
		{ID: "kraken", Name: "Kraken", LogoURL: "https://img/kraken.png"},
	}

	out := JoinVenues(venues, infos)
	if len(out) != 3 {
		t.Fatalf("want 3 venues, got %d: %+v", len(out), out)
	}
	if out[0].Quote != "USDT" || out[0].Name != "Binance" || out[0].Kind != asset.VenueCentralized {
		t.Fatalf("first binance ticker must win and carry metadata: %+v", out[0])
	}
	if out[1].ID != "coinbase" || out[1].LogoURL != "https://img/cb.png" {
		t.Fatalf("alias join failed: %+v", out[1])
	}
	if out[2].Name != "Kraken Pro" || out[2].LogoURL != "https://img/kraken.png" {
		t.Fatalf("ticker name must be kept, logo filled: %+v", out[2])
	}
}

func TestJoinVenues_UnknownVenueNamedByID(t *testing.T) {
	out := JoinVenues([]asset.Venue{{ID: "tinydex"}}, nil)
	if len(out) != 1 || out[0].Name != "tinydex" {
		t.Fatalf("unexpected: %+v", out)
	}
}
