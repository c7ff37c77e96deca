package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"kriptomarket/internal/api"
	"kriptomarket/internal/asset"
	"kriptomarket/internal/fetcher"
	"kriptomarket/internal/log"
	"kriptomarket/internal/metrics"
	"kriptomarket/internal/poller"
)

func serveCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Metrics.Enabled {
		metrics.Init()
	}
	f, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	fc, err := fetchConfig(c, cfg)
	if err != nil {
		return err
	}
	prefs, err := openPreferences(cfg)
	if err != nil {
		return err
	}
	defer prefs.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := poller.New(pollFetch(f, fc), cfg.Poll)
	p.Start(ctx)
	defer p.Stop()

	apiCfg := api.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}
	// without a dedicated port the metrics share the API listener
	if cfg.Metrics.Enabled && cfg.Metrics.Port == "" {
		apiCfg.MetricsEndpoint = cfg.Metrics.EndpointOrDefault()
	}

	log.Infow("starting", "sources", fc.Sources, "interval", cfg.Poll.Interval, "preferences", cfg.Preference.Backend)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.New(apiCfg, p, f, prefs, api.WithTargets(dexTarget{p: p, f: f, base: fc})).Run(gctx)
	})
	g.Go(func() error {
		return metrics.StartMetricsHttpServer(gctx, cfg.Metrics)
	})
	return g.Wait()
}

func pollFetch(f assetFetcher, fc fetcher.Config) poller.FetchFunc {
	return func(ctx context.Context) ([]asset.Asset, error) {
		return f.FetchAssets(ctx, fc)
	}
}

// dexTarget swaps the DEX query and token list of the polled fetch. The rest
// of the fetch config stays as configured at startup.
type dexTarget struct {
	p    *poller.Poller
	f    assetFetcher
	base fetcher.Config
}

func (d dexTarget) Retarget(query string, tokens []string) {
	fc := d.base
	fc.Query, fc.Tokens = query, tokens
	log.Infow("poll target changed", "query", query, "tokens", len(tokens))
	d.p.SetFetch(pollFetch(d.f, fc))
}
