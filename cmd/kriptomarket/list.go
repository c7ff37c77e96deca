package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/i18n"
	"kriptomarket/internal/listing"
	"kriptomarket/internal/log"
	"kriptomarket/internal/poller"
)

type view struct {
	query listing.Query
	key   listing.SortKey
	order listing.Order
	lang  i18n.Language
	json  bool
}

func parseView(c *cli.Context, lang i18n.Language) (view, error) {
	category, err := listing.ParseCategory(c.String(flagCategory))
	if err != nil {
		return view{}, err
	}
	key, err := listing.ParseSortKey(c.String(flagSort))
	if err != nil {
		return view{}, err
	}
	order, err := listing.ParseOrder(c.String(flagOrder), key)
	if err != nil {
		return view{}, err
	}
	return view{
		query: listing.Query{Search: c.String(flagSearch), Category: category, Chains: c.StringSlice(flagChain)},
		key:   key,
		order: order,
		lang:  lang,
		json:  c.Bool(flagJSON),
	}, nil
}

func (v view) print(assets []asset.Asset) error {
	out := listing.Filter(assets, v.query)
	listing.Sort(out, v.key, v.order)
	if v.json {
		return writeJSON(os.Stdout, out)
	}
	renderAssets(os.Stdout, out, v.lang)
	return nil
}

func listCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	lang, err := displayLanguage(c, cfg)
	if err != nil {
		return err
	}
	v, err := parseView(c, lang)
	if err != nil {
		return err
	}
	fc, err := fetchConfig(c, cfg)
	if err != nil {
		return err
	}
	f, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(c, cfg.Poll.Timeout)
	defer cancel()
	assets, err := f.FetchAssets(ctx, fc)
	if err != nil {
		return errors.Wrap(err, lang.Label(i18n.FetchError))
	}
	return v.print(assets)
}

func watchCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	lang, err := displayLanguage(c, cfg)
	if err != nil {
		return err
	}
	v, err := parseView(c, lang)
	if err != nil {
		return err
	}
	fc, err := fetchConfig(c, cfg)
	if err != nil {
		return err
	}
	f, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	pc := cfg.Poll
	if c.IsSet(flagInterval) {
		pc.Interval = c.Duration(flagInterval)
		pc.MaxInterval = 0
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := poller.New(func(ctx context.Context) ([]asset.Asset, error) {
		return f.FetchAssets(ctx, fc)
	}, pc, poller.WithOnUpdate(func(s poller.Snapshot) {
		fmt.Printf("\n%s\n", s.UpdatedAt.Format(time.RFC3339))
		if s.Err != nil {
			fmt.Printf("%s: %v\n", lang.Label(i18n.FetchError), s.Err)
		}
		if err := v.print(s.Assets); err != nil {
			log.Warnw("cannot print listing", "error", err)
		}
	}))
	p.Start(ctx)
	<-ctx.Done()
	p.Stop()
	return nil
}

func contextWithTimeout(c *cli.Context, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
