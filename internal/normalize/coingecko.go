package normalize

import (
	"strings"

	"kriptomarket/internal/aggregate"
	"kriptomarket/internal/asset"
)

const usd = "usd"

func fromCoinGeckoMarket(r CoinGeckoMarket) (asset.Asset, error) {
	id := strings.TrimSpace(r.ID)
	name := strings.TrimSpace(r.Name)
	symbol := strings.TrimSpace(r.Symbol)
	switch {
	case id == "":
		return asset.Asset{}, malformed(asset.SourceCoinGecko, "missing id")
	case name == "":
		return asset.Asset{}, malformed(asset.SourceCoinGecko, "%s: missing name", id)
	case symbol == "":
		return asset.Asset{}, malformed(asset.SourceCoinGecko, "%s: missing symbol", id)
	}
	return asset.Asset{
		ID:                    id,
		Name:                  name,
		Symbol:                strings.ToUpper(symbol),
		ImageURL:              strings.TrimSpace(r.Image),
		PriceUSD:              nonNegative(r.CurrentPrice),
		PriceChangePercent24h: finite(r.PriceChangePercentage24h),
		MarketCapUSD:          nonNegative(r.MarketCap),
		VolumeUSD24h:          nonNegative(r.TotalVolume),
		CirculatingSupply:     nonNegative(r.CirculatingSupply),
		Rank:                  positive(r.MarketCapRank),
		Source:                asset.SourceCoinGecko,
	}, nil
}

func fromCoinGeckoCoin(r CoinGeckoCoin) (asset.Detail, error) {
	base, err := fromCoinGeckoMarket(CoinGeckoMarket{
		ID:            r.ID,
		Symbol:        r.Symbol,
		Name:          r.Name,
		Image:         firstNonEmpty(r.Image.Large, r.Image.Small, r.Image.Thumb),
		MarketCapRank: r.MarketCapRank,
	})
	if err != nil {
		return asset.Detail{}, err
	}
	if md := r.MarketData; md != nil {
		base.PriceUSD = nonNegative(pick(md.CurrentPrice, usd))
		base.MarketCapUSD = nonNegative(pick(md.MarketCap, usd))
		base.VolumeUSD24h = nonNegative(pick(md.TotalVolume, usd))
		base.PriceChangePercent24h = finite(md.PriceChangePercentage24h)
		base.CirculatingSupply = nonNegative(md.CirculatingSupply)
	}

	links := asset.Links{
		Homepage:   first(r.Links.Homepage),
		GitHub:     first(r.Links.ReposURL.GitHub),
		Whitepaper: strings.TrimSpace(r.Links.Whitepaper),
		Explorer:   first(r.Links.BlockchainSite),
		Reddit:     strings.TrimSpace(r.Links.SubredditURL),
	}
	if tw := strings.TrimSpace(r.Links.TwitterScreenName); tw != "" {
		links.Twitter = "https://twitter.com/" + tw
	}

	platforms := make(map[string]string, len(r.Platforms))
	for chain, addr := range r.Platforms {
		if chain = strings.TrimSpace(chain); chain != "" && strings.TrimSpace(addr) != "" {
			platforms[chain] = strings.TrimSpace(addr)
		}
	}
	if len(platforms) == 0 {
		platforms = nil
	}

	venues := make([]asset.Venue, 0, len(r.Tickers))
	for _, t := range r.Tickers {
		venues = append(venues, asset.Venue{
			ID:         t.Market.Identifier,
			Name:       t.Market.Name,
			LogoURL:    t.Market.Logo,
			Base:       strings.ToUpper(t.Base),
			Quote:      strings.ToUpper(t.Target),
			PriceUSD:   nonNegative(pick(t.ConvertedLast, usd)),
			VolumeUSD:  nonNegative(pick(t.ConvertedVolume, usd)),
			TrustScore: deref(t.TrustScore),
			TradeURL:   deref(t.TradeURL),
		})
	}
	infos := make([]asset.VenueInfo, 0, len(r.Exchanges))
	for _, e := range r.Exchanges {
		infos = append(infos, asset.VenueInfo{
			ID:      e.ID,
			Name:    e.Name,
			LogoURL: e.Image,
			Kind:    venueKind(e.Centralized),
			URL:     e.URL,
		})
	}

	return asset.Detail{
		Asset:           base,
		Description:     strings.TrimSpace(r.Description["en"]),
		Links:           links,
		ContractAddress: strings.TrimSpace(r.ContractAddress),
		Platforms:       platforms,
		Venues:          aggregate.JoinVenues(venues, infos),
	}, nil
}

func venueKind(centralized *bool) string {
	switch {
	case centralized == nil:
		return ""
	case *centralized:
		return asset.VenueCentralized
	default:
		return asset.VenueDecentralized
	}
}

func firstNonEmpty(ss ...string) string {
	return first(ss)
}
