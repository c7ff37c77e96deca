package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/i18n"
)

func detailCmd(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("usage: detail SOURCE ID")
	}
	src, err := asset.ParseSource(c.Args().Get(0))
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	lang, err := displayLanguage(c, cfg)
	if err != nil {
		return err
	}
	f, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(c, cfg.Poll.Timeout)
	defer cancel()
	d, err := f.FetchDetail(ctx, asset.Ref{Source: src, ID: c.Args().Get(1), Chain: c.String(flagChainRef)})
	if err != nil {
		return errors.Wrap(err, lang.Label(i18n.FetchError))
	}
	if c.Bool(flagJSON) {
		return writeJSON(os.Stdout, d)
	}
	renderDetail(os.Stdout, d, lang)
	return nil
}
