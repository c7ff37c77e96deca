package api

import (
	"time"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/format"
	"kriptomarket/internal/i18n"
)

// display holds the preformatted strings a renderer shows as-is.
type display struct {
	Price     string           `json:"price"`
	Change24h string           `json:"change24h"`
	Direction format.Direction `json:"direction"`
	MarketCap string           `json:"marketCap"`
	Volume24h string           `json:"volume24h"`
	Liquidity string           `json:"liquidity"`
	Supply    string           `json:"supply"`
}

func displayOf(a asset.Asset) display {
	return display{
		Price:     format.Price(a.PriceUSD),
		Change24h: format.Percent(a.PriceChangePercent24h),
		Direction: format.DirectionOf(a.PriceChangePercent24h),
		MarketCap: format.Large(a.MarketCapUSD),
		Volume24h: format.Large(a.VolumeUSD24h),
		Liquidity: format.Large(a.LiquidityUSD),
		Supply:    format.Supply(a.CirculatingSupply, a.Symbol),
	}
}

type assetView struct {
	asset.Asset
	Display display `json:"display"`
}

type assetsResponse struct {
	Assets     []assetView   `json:"assets"`
	Count      int           `json:"count"`
	Total      int           `json:"total"`
	Language   i18n.Language `json:"language"`
	Message    string        `json:"message,omitempty"`
	FetchedAt  time.Time     `json:"fetchedAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	Generation uint64        `json:"generation"`
	// Error is the last fetch failure while older assets are still served.
	Error string `json:"error,omitempty"`
}

type venueView struct {
	asset.Venue
	Price  string `json:"priceDisplay"`
	Volume string `json:"volumeDisplay"`
}

type detailResponse struct {
	asset.Detail
	Venues   []venueView   `json:"venues"`
	Display  display       `json:"display"`
	Language i18n.Language `json:"language"`
}

func detailView(d asset.Detail, lang i18n.Language) detailResponse {
	venues := make([]venueView, 0, len(d.Venues))
	for _, v := range d.Venues {
		venues = append(venues, venueView{Venue: v, Price: format.Price(v.PriceUSD), Volume: format.Large(v.VolumeUSD)})
	}
	return detailResponse{Detail: d, Venues: venues, Display: displayOf(d.Asset), Language: lang}
}

// refreshBody optionally re-points the DEX part of the polled fetch.
type refreshBody struct {
	Query  string   `json:"query"`
	Tokens []string `json:"tokens"`
}

type refreshResponse struct {
	Status     string    `json:"status"`
	Assets     int       `json:"assets"`
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type languageBody struct {
	Language string `json:"language"`
}

type languageResponse struct {
	Language i18n.Language `json:"language"`
}

type labelsResponse struct {
	Language i18n.Language       `json:"language"`
	Labels   map[i18n.Key]string `json:"labels"`
}

type errorResponse struct {
	Error string `json:"error"`
}
