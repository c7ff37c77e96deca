package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	flagCfg      = "cfg"
	flagSource   = "source"
	flagLimit    = "limit"
	flagPage     = "page"
	flagQuery    = "query"
	flagToken    = "token"
	flagDegrade  = "degrade"
	flagSearch   = "search"
	flagCategory = "category"
	flagChain    = "chain"
	flagSort     = "sort"
	flagOrder    = "order"
	flagLang     = "lang"
	flagJSON     = "json"
	flagChainRef = "chain-id"
	flagPages    = "pages"
	flagOut      = "out"
	flagParallel = "parallel"
	flagInterval = "interval"
)

const (
	// App name
	appName = "kriptomarket"
	// version represents the program based on the git tag
	version = "v0.1.0"
	// commit represents the program based on the git commit
	commit = "dev"
	// date represents the date of application was built
	date = ""
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "Aggregate crypto market data from CoinGecko, DEXScreener and CoinCap"
	app.Version = version
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    flagCfg,
			Aliases: []string{"c"},
			Usage:   "Configuration `FILE`",
		},
	}

	fetchFlags := []cli.Flag{
		&cli.StringSliceFlag{Name: flagSource, Aliases: []string{"s"}, Usage: "providers in merge order (coingecko, dexscreener, coincap)"},
		&cli.IntFlag{Name: flagLimit, Aliases: []string{"n"}, Usage: "assets per provider"},
		&cli.IntFlag{Name: flagPage, Usage: "provider page, 1-based"},
		&cli.StringFlag{Name: flagQuery, Usage: "DEXScreener search term"},
		&cli.StringSliceFlag{Name: flagToken, Usage: "DEXScreener token addresses"},
		&cli.BoolFlag{Name: flagDegrade, Usage: "skip failed providers instead of failing"},
	}
	viewFlags := []cli.Flag{
		&cli.StringFlag{Name: flagSearch, Aliases: []string{"q"}, Usage: "filter by symbol, name or id"},
		&cli.StringFlag{Name: flagCategory, Usage: "all, meme, ai, layer1, layer2 or other"},
		&cli.StringSliceFlag{Name: flagChain, Usage: "only DEX pairs on these chains"},
		&cli.StringFlag{Name: flagSort, Usage: "rank, price, change, marketcap, volume, liquidity or name"},
		&cli.StringFlag{Name: flagOrder, Usage: "asc or desc"},
		&cli.StringFlag{Name: flagLang, Usage: "en or so; defaults to the saved preference"},
		&cli.BoolFlag{Name: flagJSON, Usage: "print JSON instead of a table"},
	}

	app.Commands = []*cli.Command{
		{
			Name:   "version",
			Usage:  "Application version and build",
			Action: versionCmd,
		},
		{
			Name:   "serve",
			Usage:  "Poll the providers and serve the JSON API",
			Action: serveCmd,
		},
		{
			Name:   "list",
			Usage:  "Fetch once and print the asset listing",
			Action: listCmd,
			Flags:  append(append([]cli.Flag{}, fetchFlags...), viewFlags...),
		},
		{
			Name:   "watch",
			Usage:  "Poll and reprint the listing on every update",
			Action: watchCmd,
			Flags: append(append([]cli.Flag{
				&cli.DurationFlag{Name: flagInterval, Usage: "poll interval, overrides Poll.Interval"},
			}, fetchFlags...), viewFlags...),
		},
		{
			Name:      "detail",
			Usage:     "Print the details of one asset",
			ArgsUsage: "SOURCE ID",
			Action:    detailCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagChainRef, Usage: "chain of a DEX pair"},
				&cli.StringFlag{Name: flagLang, Usage: "en or so; defaults to the saved preference"},
				&cli.BoolFlag{Name: flagJSON, Usage: "print JSON instead of a table"},
			},
		},
		{
			Name:   "export",
			Usage:  "Fetch several listing pages and write them to a JSON file",
			Action: exportCmd,
			Flags: append([]cli.Flag{
				&cli.IntFlag{Name: flagPages, Value: 3, Usage: "number of pages"},
				&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Value: "assets.json", Usage: "output `FILE`"},
				&cli.IntFlag{Name: flagParallel, Value: 2, Usage: "pages fetched concurrently"},
			}, fetchFlags...),
		},
		{
			Name:  "lang",
			Usage: "Show or change the display language",
			Subcommands: []*cli.Command{
				{Name: "get", Usage: "Print the saved language", Action: langGetCmd},
				{Name: "set", Usage: "Save a language", ArgsUsage: "en|so", Action: langSetCmd},
				{Name: "toggle", Usage: "Switch between en and so", Action: langToggleCmd},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Printf("\nError: %v\n", err)
		os.Exit(1)
	}
}
