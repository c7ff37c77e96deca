package coingecko

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/normalize"
)

// MaxPerPage is the largest page size /coins/markets accepts.
const MaxPerPage = 250

// GetCoinsMarkets retrieves one page of the market-cap ordered listing priced in USD.
// Elements that do not decode are returned as normalize.Undecodable records.
func (c *CoinGeckoAPIClient) GetCoinsMarkets(ctx context.Context, perPage, page int, opts ...CoinGeckoAPIClientOption) ([]normalize.Record, error) {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("sparkline", "false")
	query.Set("price_change_percentage", "24h")

	var raws []json.RawMessage
	if err := c.get(ctx, "/coins/markets", query, &raws, opts...); err != nil {
		return nil, err
	}
	return normalize.Decode[normalize.CoinGeckoMarket](asset.SourceCoinGecko, raws), nil
}
