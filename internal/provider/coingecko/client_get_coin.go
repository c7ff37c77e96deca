package coingecko

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"kriptomarket/internal/normalize"
)

// GetCoin retrieves the detail of one coin including its tickers.
func (c *CoinGeckoAPIClient) GetCoin(ctx context.Context, id string, opts ...CoinGeckoAPIClientOption) (normalize.CoinGeckoCoin, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return normalize.CoinGeckoCoin{}, errors.New("coin id is empty")
	}
	query := url.Values{}
	query.Set("localization", "false")
	query.Set("tickers", "true")
	query.Set("market_data", "true")
	query.Set("community_data", "false")
	query.Set("developer_data", "false")

	var coin normalize.CoinGeckoCoin
	if err := c.get(ctx, "/coins/"+url.PathEscape(id), query, &coin, opts...); err != nil {
		return normalize.CoinGeckoCoin{}, err
	}
	return coin, nil
}

// GetExchanges retrieves the exchange metadata used to decorate tickers.
func (c *CoinGeckoAPIClient) GetExchanges(ctx context.Context, opts ...CoinGeckoAPIClientOption) ([]normalize.CoinGeckoExchange, error) {
	query := url.Values{}
	query.Set("per_page", "250")

	var exchanges []normalize.CoinGeckoExchange
	if err := c.get(ctx, "/exchanges", query, &exchanges, opts...); err != nil {
		return nil, err
	}
	return exchanges, nil
}
