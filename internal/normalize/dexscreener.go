package normalize

import (
	"fmt"
	"strings"

	"kriptomarket/internal/asset"
)

// DexScreenerPairURL is used when a pair payload has no url of its own.
const DexScreenerPairURL = "https://dexscreener.com/%s/%s"

func fromDexPair(r DexPair) (asset.Asset, error) {
	addr := strings.TrimSpace(r.PairAddress)
	if addr == "" {
		return asset.Asset{}, malformed(asset.SourceDexScreener, "missing pair address")
	}
	if r.BaseToken == nil {
		return asset.Asset{}, malformed(asset.SourceDexScreener, "%s: missing base token", addr)
	}
	name := strings.TrimSpace(r.BaseToken.Name)
	symbol := strings.TrimSpace(r.BaseToken.Symbol)
	if name == "" || symbol == "" {
		return asset.Asset{}, malformed(asset.SourceDexScreener, "%s: base token without name or symbol", addr)
	}

	a := asset.Asset{
		ID:       addr,
		Name:     name,
		Symbol:   strings.ToUpper(symbol),
		PriceUSD: nonNegative(parseNumber(r.PriceUSD)),
		Source:   asset.SourceDexScreener,
		Pair: &asset.Pair{
			ChainID:     strings.TrimSpace(r.ChainID),
			DexID:       strings.TrimSpace(r.DexID),
			Address:     addr,
			BaseAddress: strings.TrimSpace(r.BaseToken.Address),
			URL:         strings.TrimSpace(r.URL),
		},
	}
	if r.QuoteToken != nil {
		a.Pair.QuoteSymbol = strings.ToUpper(strings.TrimSpace(r.QuoteToken.Symbol))
	}
	if a.Pair.URL == "" && a.Pair.ChainID != "" {
		a.Pair.URL = fmt.Sprintf(DexScreenerPairURL, a.Pair.ChainID, addr)
	}
	if r.PriceChange != nil {
		a.PriceChangePercent24h = finite(r.PriceChange.H24)
	}
	if r.Volume != nil {
		a.VolumeUSD24h = nonNegative(r.Volume.H24)
	}
	if r.Liquidity != nil {
		a.LiquidityUSD = nonNegative(r.Liquidity.USD)
	}
	a.MarketCapUSD = nonNegative(r.MarketCap)
	if a.MarketCapUSD == nil {
		a.MarketCapUSD = nonNegative(r.FDV)
	}
	if r.Info != nil {
		a.ImageURL = strings.TrimSpace(r.Info.ImageURL)
	}
	return a, nil
}

func fromDexPairDetail(r DexPair) (asset.Detail, error) {
	a, err := fromDexPair(r)
	if err != nil {
		return asset.Detail{}, err
	}

	var links asset.Links
	if r.Info != nil {
		for _, w := range r.Info.Websites {
			if links.Homepage == "" && strings.TrimSpace(w.URL) != "" {
				links.Homepage = strings.TrimSpace(w.URL)
			}
		}
		for _, s := range r.Info.Socials {
			u := strings.TrimSpace(s.URL)
			switch strings.ToLower(s.Type) {
			case "twitter", "x":
				if links.Twitter == "" {
					links.Twitter = u
				}
			case "github":
				if links.GitHub == "" {
					links.GitHub = u
				}
			case "reddit":
				if links.Reddit == "" {
					links.Reddit = u
				}
			}
		}
	}

	venue := asset.Venue{
		ID:        a.Pair.DexID,
		Kind:      asset.VenueDecentralized,
		Base:      a.Symbol,
		Quote:     a.Pair.QuoteSymbol,
		PriceUSD:  a.PriceUSD,
		VolumeUSD: a.VolumeUSD24h,
		TradeURL:  a.Pair.URL,
	}
	venues := []asset.Venue{}
	if venue.ID != "" {
		venue.Name = venue.ID
		venues = append(venues, venue)
	}

	return asset.Detail{
		Asset:           a,
		Links:           links,
		ContractAddress: a.Pair.BaseAddress,
		Venues:          venues,
	}, nil
}
