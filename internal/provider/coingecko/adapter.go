package coingecko

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/log"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
)

type Config struct {
	Name    string // display name, default: CoinGecko
	PerPage int    // default page size when the request has none
	// ExchangesCacheTTL keeps the /exchanges payload between detail lookups.
	// If <= 0, exchanges are fetched on every lookup.
	ExchangesCacheTTL time.Duration
}

// Adapter exposes the CoinGecko client as a provider.Provider.
type Adapter struct {
	cfg    Config
	client *CoinGeckoAPIClient

	mu               sync.RWMutex
	exchanges        []normalize.CoinGeckoExchange
	exchangesExpires time.Time
}

var (
	_ provider.Provider       = (*Adapter)(nil)
	_ provider.DetailProvider = (*Adapter)(nil)
)

func New(cfg Config, client *CoinGeckoAPIClient) *Adapter {
	if cfg.Name == "" {
		cfg.Name = "CoinGecko"
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 100
	}
	return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Source() asset.Source { return asset.SourceCoinGecko }

func (a *Adapter) Fetch(ctx context.Context, req provider.Request) ([]normalize.Record, error) {
	perPage := req.Limit
	if perPage <= 0 {
		perPage = a.cfg.PerPage
	}
	records, err := a.client.GetCoinsMarkets(ctx, perPage, req.Page)
	if err != nil {
		return nil, provider.NewFetchError(a.cfg.Name, err)
	}
	return records, nil
}

// FetchDetail loads the coin and the exchange directory concurrently. A
// failing exchange directory only costs the venue logos.
func (a *Adapter) FetchDetail(ctx context.Context, ref asset.Ref) (normalize.DetailRecord, error) {
	var (
		coin      normalize.CoinGeckoCoin
		exchanges []normalize.CoinGeckoExchange
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		coin, err = a.client.GetCoin(gctx, ref.ID)
		return err
	})
	g.Go(func() error {
		exchanges = a.cachedExchanges(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, provider.NewFetchError(a.cfg.Name, err)
	}
	coin.Exchanges = exchanges
	return coin, nil
}

func (a *Adapter) cachedExchanges(ctx context.Context) []normalize.CoinGeckoExchange {
	ttl := a.cfg.ExchangesCacheTTL
	if ttl > 0 {
		a.mu.RLock()
		if time.Now().Before(a.exchangesExpires) && len(a.exchanges) > 0 {
			out := a.exchanges
			a.mu.RUnlock()
			return out
		}
		a.mu.RUnlock()
	}

	exchanges, err := a.client.GetExchanges(ctx)
	if err != nil {
		log.Warnw("exchange directory unavailable", "provider", a.cfg.Name, "error", err)
		return nil
	}
	if ttl > 0 {
		a.mu.Lock()
		a.exchanges = exchanges
		a.exchangesExpires = time.Now().Add(ttl)
		a.mu.Unlock()
	}
	return exchanges
}
