package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"kriptomarket/internal/aggregate"
	"kriptomarket/internal/asset"
	"kriptomarket/internal/fetcher"
	"kriptomarket/internal/log"
)

type exportFile struct {
	ExportedAt time.Time      `json:"exportedAt"`
	Sources    []asset.Source `json:"sources"`
	Pages      int            `json:"pages"`
	PerPage    int            `json:"perPage"`
	Count      int            `json:"count"`
	Assets     []asset.Asset  `json:"assets"`
}

// assetFetcher is the part of the fetcher the export needs.
type assetFetcher interface {
	FetchAssets(ctx context.Context, cfg fetcher.Config) ([]asset.Asset, error)
}

func exportCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
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

	ctx, cancel := contextWithTimeout(c, cfg.Poll.Timeout*time.Duration(max(1, c.Int(flagPages))))
	defer cancel()
	assets, err := fetchPages(ctx, f, fc, c.Int(flagPages), c.Int(flagParallel))
	if err != nil {
		return err
	}

	out := c.String(flagOut)
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create output dir")
		}
	}
	fh, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer fh.Close()
	err = writeJSON(fh, exportFile{
		ExportedAt: time.Now().UTC(),
		Sources:    fc.Sources,
		Pages:      max(1, c.Int(flagPages)),
		PerPage:    fc.Limit,
		Count:      len(assets),
		Assets:     assets,
	})
	if err != nil {
		return errors.Wrap(err, "write export")
	}
	log.Infow("export written", "file", out, "assets", len(assets))
	return nil
}

// fetchPages fetches pages 1..pages with at most parallel cycles in flight
// and merges them in page order, first seen wins.
func fetchPages(ctx context.Context, f assetFetcher, fc fetcher.Config, pages, parallel int) ([]asset.Asset, error) {
	if pages <= 0 {
		pages = 1
	}
	if parallel <= 0 {
		parallel = 1
	}
	results := make([][]asset.Asset, pages)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range pages {
		pc := fc
		pc.Page = i + 1
		g.Go(func() error {
			assets, err := f.FetchAssets(gctx, pc)
			if err != nil {
				return errors.Wrapf(err, "page %d", pc.Page)
			}
			results[i] = assets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return aggregate.MergeAssets(results...), nil
}
