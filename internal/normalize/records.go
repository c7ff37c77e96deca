package normalize

import (
	"encoding/json"

	"kriptomarket/internal/asset"
)

// Record is one raw listing element from a provider. The concrete type tells
// which mapping applies: CoinGeckoMarket, DexPair, CoinCapAsset or Undecodable.
type Record interface {
	Source() asset.Source
	record()
}

// DetailRecord is one raw per-asset detail payload: CoinGeckoCoin, CoinCapDetail or DexPair.
type DetailRecord interface {
	Source() asset.Source
	detailRecord()
}

// Undecodable is a raw element that could not be decoded into its provider type.
type Undecodable struct {
	Provider asset.Source
	Raw      json.RawMessage
	Err      error
}

func (u Undecodable) Source() asset.Source { return u.Provider }
func (Undecodable) record()                {}

// CoinGeckoMarket is an element of GET /coins/markets.
type CoinGeckoMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	MarketCapRank            *int     `json:"market_cap_rank"`
	TotalVolume              *float64 `json:"total_volume"`
	CirculatingSupply        *float64 `json:"circulating_supply"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
}

func (CoinGeckoMarket) Source() asset.Source { return asset.SourceCoinGecko }
func (CoinGeckoMarket) record()              {}

// CoinGeckoCoin is the GET /coins/{id} payload. Exchanges is filled from the
// auxiliary /exchanges endpoint.
type CoinGeckoCoin struct {
	ID              string               `json:"id"`
	Symbol          string               `json:"symbol"`
	Name            string               `json:"name"`
	Description     map[string]string    `json:"description"`
	Links           CoinGeckoLinks       `json:"links"`
	Image           CoinGeckoImage       `json:"image"`
	MarketCapRank   *int                 `json:"market_cap_rank"`
	MarketData      *CoinGeckoMarketData `json:"market_data"`
	ContractAddress string               `json:"contract_address"`
	Platforms       map[string]string    `json:"platforms"`
	Tickers         []CoinGeckoTicker    `json:"tickers"`

	Exchanges []CoinGeckoExchange `json:"-"`
}

func (CoinGeckoCoin) Source() asset.Source { return asset.SourceCoinGecko }
func (CoinGeckoCoin) detailRecord()        {}

type CoinGeckoLinks struct {
	Homepage          []string `json:"homepage"`
	Whitepaper        string   `json:"whitepaper"`
	BlockchainSite    []string `json:"blockchain_site"`
	TwitterScreenName string   `json:"twitter_screen_name"`
	SubredditURL      string   `json:"subreddit_url"`
	ReposURL          struct {
		GitHub []string `json:"github"`
	} `json:"repos_url"`
}

type CoinGeckoImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

type CoinGeckoMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	PriceChangePercentage24h *float64           `json:"price_change_percentage_24h"`
	CirculatingSupply        *float64           `json:"circulating_supply"`
}

type CoinGeckoTicker struct {
	Base   string `json:"base"`
	Target string `json:"target"`
	Market struct {
		Name       string `json:"name"`
		Identifier string `json:"identifier"`
		Logo       string `json:"logo"`
	} `json:"market"`
	Last            *float64           `json:"last"`
	ConvertedLast   map[string]float64 `json:"converted_last"`
	ConvertedVolume map[string]float64 `json:"converted_volume"`
	TrustScore      *string            `json:"trust_score"`
	TradeURL        *string            `json:"trade_url"`
}

// CoinGeckoExchange is an element of GET /exchanges.
type CoinGeckoExchange struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Image          string `json:"image"`
	URL            string `json:"url"`
	TrustScoreRank *int   `json:"trust_score_rank"`
	Centralized    *bool  `json:"centralized"`
}

// DexPair is a pair from the DEXScreener search, tokens or pairs endpoints.
type DexPair struct {
	ChainID       string        `json:"chainId"`
	DexID         string        `json:"dexId"`
	URL           string        `json:"url"`
	PairAddress   string        `json:"pairAddress"`
	BaseToken     *DexToken     `json:"baseToken"`
	QuoteToken    *DexToken     `json:"quoteToken"`
	PriceNative   string        `json:"priceNative"`
	PriceUSD      string        `json:"priceUsd"`
	PriceChange   *DexWindow    `json:"priceChange"`
	Volume        *DexWindow    `json:"volume"`
	Liquidity     *DexLiquidity `json:"liquidity"`
	FDV           *float64      `json:"fdv"`
	MarketCap     *float64      `json:"marketCap"`
	PairCreatedAt *int64        `json:"pairCreatedAt"`
	Info          *DexInfo      `json:"info"`
}

func (DexPair) Source() asset.Source { return asset.SourceDexScreener }
func (DexPair) record()              {}
func (DexPair) detailRecord()        {}

type DexToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type DexWindow struct {
	M5  *float64 `json:"m5"`
	H1  *float64 `json:"h1"`
	H6  *float64 `json:"h6"`
	H24 *float64 `json:"h24"`
}

type DexLiquidity struct {
	USD   *float64 `json:"usd"`
	Base  *float64 `json:"base"`
	Quote *float64 `json:"quote"`
}

type DexInfo struct {
	ImageURL string `json:"imageUrl"`
	Websites []struct {
		Label string `json:"label"`
		URL   string `json:"url"`
	} `json:"websites"`
	Socials []struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"socials"`
}

// CoinCapAsset is an element of GET /assets. CoinCap encodes numbers as strings.
type CoinCapAsset struct {
	ID                string  `json:"id"`
	Rank              string  `json:"rank"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Supply            *string `json:"supply"`
	MaxSupply         *string `json:"maxSupply"`
	MarketCapUSD      *string `json:"marketCapUsd"`
	VolumeUSD24Hr     *string `json:"volumeUsd24Hr"`
	PriceUSD          *string `json:"priceUsd"`
	ChangePercent24Hr *string `json:"changePercent24Hr"`
	VWAP24Hr          *string `json:"vwap24Hr"`
	Explorer          *string `json:"explorer"`
}

func (CoinCapAsset) Source() asset.Source { return asset.SourceCoinCap }
func (CoinCapAsset) record()              {}

// CoinCapMarket is an element of GET /assets/{id}/markets.
type CoinCapMarket struct {
	ExchangeID    string  `json:"exchangeId"`
	BaseSymbol    string  `json:"baseSymbol"`
	QuoteSymbol   string  `json:"quoteSymbol"`
	PriceUSD      *string `json:"priceUsd"`
	VolumeUSD24Hr *string `json:"volumeUsd24Hr"`
	VolumePercent *string `json:"volumePercent"`
}

// CoinCapExchange is an element of GET /exchanges.
type CoinCapExchange struct {
	ExchangeID  string  `json:"exchangeId"`
	Name        string  `json:"name"`
	Rank        string  `json:"rank"`
	ExchangeURL *string `json:"exchangeUrl"`
}

// CoinCapDetail bundles the three CoinCap detail responses.
type CoinCapDetail struct {
	Asset     CoinCapAsset
	Markets   []CoinCapMarket
	Exchanges []CoinCapExchange
}

func (CoinCapDetail) Source() asset.Source { return asset.SourceCoinCap }
func (CoinCapDetail) detailRecord()        {}
