package main

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/config"
	"kriptomarket/internal/fetcher"
	"kriptomarket/internal/httpx"
	"kriptomarket/internal/i18n"
	"kriptomarket/internal/log"
	"kriptomarket/internal/preference"
	"kriptomarket/internal/provider"
	"kriptomarket/internal/provider/cache"
	"kriptomarket/internal/provider/coincap"
	"kriptomarket/internal/provider/coingecko"
	"kriptomarket/internal/provider/dexscreener"
	"kriptomarket/internal/provider/ratelimit"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String(flagCfg))
	if err != nil {
		return nil, err
	}
	if err := log.Init(cfg.Log); err != nil {
		return nil, errors.Wrap(err, "init log")
	}
	return cfg, nil
}

func newHTTPClient(cfg config.HTTP) *httpx.Client {
	hc := httpx.New(cfg.Timeout)
	if cfg.UserAgent != "" {
		hc.UserAgent = cfg.UserAgent
	}
	hc.MaxRetries = cfg.MaxRetries
	return hc
}

// buildProviders creates every enabled provider wrapped in its rate limit and
// cache decorators, in Fetch.Sources order.
func buildProviders(cfg *config.Config, hc *httpx.Client) ([]provider.Provider, error) {
	var providers []provider.Provider
	for _, src := range cfg.Sources() {
		var (
			p      provider.Provider
			limits config.Limits
		)
		switch src {
		case asset.SourceCoinGecko:
			if cfg.CoinGecko.APIKey == "" {
				log.Warnw("coingecko api key not set, using the keyless public tier")
			}
			client, err := coingecko.NewCoinGeckoAPIClient(
				cfg.CoinGecko.APIKey,
				coingecko.WithBaseURL(cfg.CoinGecko.URL),
				coingecko.WithHTTPClient(hc),
				coingecko.WithHeader(http.Header{"Accept": []string{"application/json"}}),
			)
			if err != nil {
				return nil, errors.Wrap(err, "coingecko client")
			}
			p = coingecko.New(coingecko.Config{
				PerPage:           cfg.CoinGecko.PerPage,
				ExchangesCacheTTL: cfg.CoinGecko.ExchangesCacheTTL,
			}, client)
			limits = cfg.CoinGecko.Limits
		case asset.SourceDexScreener:
			p = dexscreener.New(dexscreener.Config{
				URL:      cfg.DexScreener.URL,
				Query:    cfg.DexScreener.Query,
				Parallel: cfg.DexScreener.Parallel,
				Timeout:  cfg.DexScreener.Timeout,
			}, hc)
			limits = cfg.DexScreener.Limits
		case asset.SourceCoinCap:
			p = coincap.New(coincap.Config{
				URL:          cfg.CoinCap.URL,
				APIKey:       cfg.CoinCap.APIKey,
				Limit:        cfg.CoinCap.Limit,
				MarketsLimit: cfg.CoinCap.MarketsLimit,
			}, hc)
			limits = cfg.CoinCap.Limits
		default:
			continue
		}
		providers = append(providers, decorate(p, limits))
	}
	if len(providers) == 0 {
		return nil, fetcher.ErrNoProviders
	}
	return providers, nil
}

// decorate prefers a token bucket when a per-minute rate is set, otherwise a
// minimum interval, then caches on top so cache hits skip the limiter.
func decorate(p provider.Provider, l config.Limits) provider.Provider {
	if l.MaxRequestsPerMinute > 0 {
		burst := l.Burst
		if burst <= 0 {
			burst = 1
		}
		p = &ratelimit.TokenBucketProvider{P: p, TB: ratelimit.NewTokenBucket(float64(l.MaxRequestsPerMinute)/60.0, burst)}
	} else if l.MinRequestInterval > 0 {
		p = &ratelimit.MinInterval{P: p, Interval: l.MinRequestInterval}
	}
	if l.CacheTTL > 0 {
		p = &cache.Provider{P: p, TTL: l.CacheTTL, MaxItems: l.CacheMaxItems}
	}
	return p
}

func newFetcher(cfg *config.Config) (*fetcher.Fetcher, error) {
	providers, err := buildProviders(cfg, newHTTPClient(cfg.HTTP))
	if err != nil {
		return nil, err
	}
	return fetcher.New(providers), nil
}

// fetchConfig starts from the Fetch section and applies command flags.
func fetchConfig(c *cli.Context, cfg *config.Config) (fetcher.Config, error) {
	fc := fetcher.Config{
		Sources: cfg.Sources(),
		Limit:   cfg.Fetch.Limit,
		Page:    cfg.Fetch.Page,
		Query:   cfg.DexScreener.Query,
		Tokens:  cfg.DexScreener.Tokens,
		Degrade: cfg.Fetch.Degrade,
	}
	if names := c.StringSlice(flagSource); len(names) > 0 {
		fc.Sources = fc.Sources[:0:0]
		for _, n := range names {
			src, err := asset.ParseSource(n)
			if err != nil {
				return fc, err
			}
			fc.Sources = append(fc.Sources, src)
		}
	}
	if c.IsSet(flagLimit) {
		fc.Limit = c.Int(flagLimit)
	}
	if c.IsSet(flagPage) {
		fc.Page = c.Int(flagPage)
	}
	if c.IsSet(flagQuery) {
		fc.Query = c.String(flagQuery)
	}
	if tokens := c.StringSlice(flagToken); len(tokens) > 0 {
		fc.Tokens = tokens
	}
	if c.IsSet(flagDegrade) {
		fc.Degrade = c.Bool(flagDegrade)
	}
	return fc, nil
}

func openPreferences(cfg *config.Config) (*preference.Service, error) {
	store, err := preference.Open(cfg.Preference)
	if err != nil {
		return nil, errors.Wrap(err, "open preference store")
	}
	return preference.NewService(store), nil
}

// displayLanguage returns --lang when given, else the saved preference.
func displayLanguage(c *cli.Context, cfg *config.Config) (i18n.Language, error) {
	if v := c.String(flagLang); v != "" {
		return i18n.Parse(v)
	}
	prefs, err := openPreferences(cfg)
	if err != nil {
		log.Warnw("using default language", "error", err)
		return i18n.Default, nil
	}
	defer prefs.Close()
	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()
	return prefs.Language(ctx)
}
