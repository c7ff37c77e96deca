package normalize

import (
	"fmt"
	"strings"

	"kriptomarket/internal/aggregate"
	"kriptomarket/internal/asset"
)

func fromCoinCapAsset(r CoinCapAsset, opts Options) (asset.Asset, error) {
	id := strings.TrimSpace(r.ID)
	name := strings.TrimSpace(r.Name)
	symbol := strings.TrimSpace(r.Symbol)
	switch {
	case id == "":
		return asset.Asset{}, malformed(asset.SourceCoinCap, "missing id")
	case name == "":
		return asset.Asset{}, malformed(asset.SourceCoinCap, "%s: missing name", id)
	case symbol == "":
		return asset.Asset{}, malformed(asset.SourceCoinCap, "%s: missing symbol", id)
	}

	a := asset.Asset{
		ID:                    id,
		Name:                  name,
		Symbol:                strings.ToUpper(symbol),
		PriceUSD:              nonNegative(parseNullableNumber(r.PriceUSD)),
		PriceChangePercent24h: parseNullableNumber(r.ChangePercent24Hr),
		MarketCapUSD:          nonNegative(parseNullableNumber(r.MarketCapUSD)),
		VolumeUSD24h:          nonNegative(parseNullableNumber(r.VolumeUSD24Hr)),
		CirculatingSupply:     nonNegative(parseNullableNumber(r.Supply)),
		Rank:                  parseRank(r.Rank),
		Source:                asset.SourceCoinCap,
	}
	if opts.CoinCapIconURL != "" {
		a.ImageURL = fmt.Sprintf(opts.CoinCapIconURL, strings.ToLower(symbol))
	}
	return a, nil
}

func fromCoinCapDetail(r CoinCapDetail, opts Options) (asset.Detail, error) {
	a, err := fromCoinCapAsset(r.Asset, opts)
	if err != nil {
		return asset.Detail{}, err
	}

	venues := make([]asset.Venue, 0, len(r.Markets))
	for _, m := range r.Markets {
		venues = append(venues, asset.Venue{
			ID:        m.ExchangeID,
			Base:      strings.ToUpper(m.BaseSymbol),
			Quote:     strings.ToUpper(m.QuoteSymbol),
			PriceUSD:  nonNegative(parseNullableNumber(m.PriceUSD)),
			VolumeUSD: nonNegative(parseNullableNumber(m.VolumeUSD24Hr)),
		})
	}
	infos := make([]asset.VenueInfo, 0, len(r.Exchanges))
	for _, e := range r.Exchanges {
		infos = append(infos, asset.VenueInfo{
			ID:   e.ExchangeID,
			Name: e.Name,
			URL:  deref(e.ExchangeURL),
		})
	}

	return asset.Detail{
		Asset:  a,
		Links:  asset.Links{Explorer: strings.TrimSpace(deref(r.Asset.Explorer))},
		Venues: aggregate.JoinVenues(venues, infos),
	}, nil
}
