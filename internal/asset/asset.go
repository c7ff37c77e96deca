package asset

import (
	"strings"

	"github.com/pkg/errors"
)

// Source identifies the upstream API a record came from.
type Source string

const (
	SourceCoinGecko   Source = "coingecko"
	SourceDexScreener Source = "dexscreener"
	SourceCoinCap     Source = "coincap"
)

// Sources lists every supported upstream in default priority order.
var Sources = []Source{SourceCoinGecko, SourceDexScreener, SourceCoinCap}

// ParseSource maps a case-insensitive name onto a known Source.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceCoinGecko:
		return SourceCoinGecko, nil
	case SourceDexScreener:
		return SourceDexScreener, nil
	case SourceCoinCap:
		return SourceCoinCap, nil
	}
	return "", errors.Errorf("unknown source %q", s)
}

// Category is a coarse classification tag derived from name and symbol.
type Category string

const (
	CategoryMeme   Category = "meme"
	CategoryAI     Category = "ai"
	CategoryLayer1 Category = "layer1"
	CategoryLayer2 Category = "layer2"
	CategoryOther  Category = "other"

	// CategoryAll is a filter key matching every category. It is never assigned to an asset.
	CategoryAll Category = "all"
)

// Categories lists the assignable tags in classification precedence order.
var Categories = []Category{CategoryMeme, CategoryAI, CategoryLayer1, CategoryLayer2, CategoryOther}

// Asset is the canonical, provider-independent market record.
// Optional numbers are nil when the provider did not supply a usable value.
type Asset struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Symbol                string   `json:"symbol"`
	ImageURL              string   `json:"imageUrl,omitempty"`
	PriceUSD              *float64 `json:"priceUsd"`
	PriceChangePercent24h *float64 `json:"priceChangePercent24h"`
	MarketCapUSD          *float64 `json:"marketCapUsd"`
	VolumeUSD24h          *float64 `json:"volumeUsd24h"`
	LiquidityUSD          *float64 `json:"liquidityUsd"`
	CirculatingSupply     *float64 `json:"circulatingSupply"`
	Rank                  *int     `json:"rank"`
	Category              Category `json:"category"`
	Source                Source   `json:"sourceProvider"`
	Pair                  *Pair    `json:"pair,omitempty"`
}

// Ref returns the lookup reference for the asset's detail view.
func (a Asset) Ref() Ref {
	r := Ref{Source: a.Source, ID: a.ID}
	if a.Pair != nil {
		r.Chain = a.Pair.ChainID
	}
	return r
}

// Pair carries the DEX specific fields of a pair asset.
type Pair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId,omitempty"`
	Address     string `json:"address"`
	BaseAddress string `json:"baseAddress,omitempty"`
	QuoteSymbol string `json:"quoteSymbol,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Ref identifies one asset for a detail lookup. Chain is only used by DEX pairs.
type Ref struct {
	Source Source `json:"source"`
	ID     string `json:"id"`
	Chain  string `json:"chain,omitempty"`
}

// Key is a stable string form of the reference.
func (r Ref) Key() string {
	if r.Chain == "" {
		return string(r.Source) + ":" + r.ID
	}
	return string(r.Source) + ":" + r.Chain + ":" + r.ID
}

// Detail is the extended metadata of one asset.
type Detail struct {
	Asset
	Description     string            `json:"description,omitempty"`
	Links           Links             `json:"links"`
	ContractAddress string            `json:"contractAddress,omitempty"`
	Platforms       map[string]string `json:"platforms,omitempty"`
	Venues          []Venue           `json:"venues"`
}

// Links holds the external URLs of an asset. Empty strings are absent links.
type Links struct {
	Homepage   string `json:"homepage,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	GitHub     string `json:"github,omitempty"`
	Whitepaper string `json:"whitepaper,omitempty"`
	Explorer   string `json:"explorer,omitempty"`
	Reddit     string `json:"reddit,omitempty"`
}

// Venue kinds.
const (
	VenueCentralized   = "cex"
	VenueDecentralized = "dex"
)

// Venue is one trading venue ticker of an asset.
type Venue struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	LogoURL    string   `json:"logoUrl,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Base       string   `json:"base"`
	Quote      string   `json:"quote"`
	PriceUSD   *float64 `json:"priceUsd"`
	VolumeUSD  *float64 `json:"volumeUsd"`
	TrustScore string   `json:"trustScore,omitempty"`
	TradeURL   string   `json:"tradeUrl,omitempty"`
}

// VenueInfo is auxiliary exchange metadata joined onto venues by ID.
type VenueInfo struct {
	ID      string
	Name    string
	LogoURL string
	Kind    string
	URL     string
}
