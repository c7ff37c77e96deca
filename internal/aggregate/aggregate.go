package aggregate

import (
	"strings"

	"kriptomarket/internal/asset"
)

// aliasMap normalizes venue identifiers spelled differently across providers.
var aliasMap = map[string]string{
	"gdax":              "coinbase",
	"coinbase-exchange": "coinbase",
	"coinbase_exchange": "coinbase",
	"okex":              "okx",
	"huobi":             "htx",
	"huobi-global":      "htx",
	"binance_us":        "binanceus",
	"binance-us":        "binanceus",
	"crypto_com":        "crypto-com",
	"cryptocom":         "crypto-com",
	"gate":              "gate-io",
	"gate.io":           "gate-io",
}

// NormalizeVenueID lower-cases, trims and resolves aliases of a venue identifier.
func NormalizeVenueID(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	if s == "" {
		return ""
	}
	if norm, ok := aliasMap[s]; ok {
		return norm
	}
	return s
}

// MergeAssets concatenates batches in order and keeps the first asset seen for
// every ID. Assets with the same symbol but different IDs are all kept.
func MergeAssets(batches ...[]asset.Asset) []asset.Asset {
	n := 0
	for _, b := range batches {
		n += len(b)
	}
	out := make([]asset.Asset, 0, n)
	seen := make(map[string]struct{}, n)
	for _, b := range batches {
		for _, a := range b {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// JoinVenues keeps the first ticker per venue identifier and fills the venue
// name, logo and kind from the exchange metadata when the ticker lacks them.
// Tickers without an identifier are dropped.
func JoinVenues(venues []asset.Venue, infos []asset.VenueInfo) []asset.Venue {
	byID := make(map[string]asset.VenueInfo, len(infos))
	for _, info := range infos {
		id := NormalizeVenueID(info.ID)
		if id == "" {
			continue
		}
		if _, ok := byID[id]; !ok {
			byID[id] = info
		}
	}

	out := make([]asset.Venue, 0, len(venues))
	seen := make(map[string]struct{}, len(venues))
	for _, v := range venues {
		id := NormalizeVenueID(v.ID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		v.ID = id
		if info, ok := byID[id]; ok {
			if v.Name == "" {
				v.Name = info.Name
			}
			if v.LogoURL == "" {
				v.LogoURL = info.LogoURL
			}
			if v.Kind == "" {
				v.Kind = info.Kind
			}
			if v.TradeURL == "" {
				v.TradeURL = info.URL
			}
		}
		if v.Name == "" {
			v.Name = id
		}
		out = append(out, v)
	}
	return out
}
