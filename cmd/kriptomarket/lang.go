package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"kriptomarket/internal/i18n"
	"kriptomarket/internal/preference"
)

func withPreferences(c *cli.Context, fn func(prefs *preference.Service) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	prefs, err := openPreferences(cfg)
	if err != nil {
		return err
	}
	defer prefs.Close()
	return fn(prefs)
}

func langGetCmd(c *cli.Context) error {
	return withPreferences(c, func(prefs *preference.Service) error {
		ctx, cancel := contextWithTimeout(c, 5*time.Second)
		defer cancel()
		lang, err := prefs.Language(ctx)
		if err != nil {
			return err
		}
		fmt.Println(lang)
		return nil
	})
}

func langSetCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: lang set en|so")
	}
	lang, err := i18n.Parse(c.Args().First())
	if err != nil {
		return err
	}
	return withPreferences(c, func(prefs *preference.Service) error {
		ctx, cancel := contextWithTimeout(c, 5*time.Second)
		defer cancel()
		if err := prefs.SetLanguage(ctx, lang); err != nil {
			return err
		}
		fmt.Println(lang)
		return nil
	})
}

func langToggleCmd(c *cli.Context) error {
	return withPreferences(c, func(prefs *preference.Service) error {
		ctx, cancel := contextWithTimeout(c, 5*time.Second)
		defer cancel()
		lang, err := prefs.ToggleLanguage(ctx)
		if err != nil {
			return err
		}
		fmt.Println(lang)
		return nil
	})
}
