package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/format"
	"kriptomarket/internal/i18n"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func renderAssets(w io.Writer, assets []asset.Asset, lang i18n.Language) {
	if len(assets) == 0 {
		fmt.Fprintln(w, lang.Label(i18n.NoResults))
		return
	}
	table := newTable(w, []string{
		lang.Label(i18n.Rank),
		lang.Label(i18n.Name),
		lang.Label(i18n.Symbol),
		lang.Label(i18n.Price),
		lang.Label(i18n.Change24h),
		lang.Label(i18n.MarketCap),
		lang.Label(i18n.Volume24h),
		lang.Label(i18n.Liquidity),
		lang.Label(i18n.Category),
		lang.Label(i18n.Chain),
	})
	for _, a := range assets {
		table.Append([]string{
			rank(a.Rank),
			a.Name,
			a.Symbol,
			format.Price(a.PriceUSD),
			change(a.PriceChangePercent24h),
			format.Large(a.MarketCapUSD),
			format.Large(a.VolumeUSD24h),
			format.Large(a.LiquidityUSD),
			string(a.Category),
			chain(a),
		})
	}
	table.Render()
}

func renderDetail(w io.Writer, d asset.Detail, lang i18n.Language) {
	info := newTable(w, []string{lang.Label(i18n.Name), d.Name + " (" + d.Symbol + ")"})
	info.Append([]string{lang.Label(i18n.Price), format.Price(d.PriceUSD)})
	info.Append([]string{lang.Label(i18n.Change24h), change(d.PriceChangePercent24h)})
	info.Append([]string{lang.Label(i18n.MarketCap), format.Large(d.MarketCapUSD)})
	info.Append([]string{lang.Label(i18n.Volume24h), format.Large(d.VolumeUSD24h)})
	info.Append([]string{lang.Label(i18n.Supply), format.Supply(d.CirculatingSupply, d.Symbol)})
	info.Append([]string{lang.Label(i18n.Category), string(d.Category)})
	if d.Pair != nil {
		info.Append([]string{lang.Label(i18n.Chain), d.Pair.ChainID})
		info.Append([]string{lang.Label(i18n.Pair), d.Symbol + "/" + d.Pair.QuoteSymbol})
	}
	if d.ContractAddress != "" {
		info.Append([]string{lang.Label(i18n.Contract), d.ContractAddress})
	}
	for _, l := range links(d.Links) {
		info.Append([]string{lang.Label(i18n.Links), l})
	}
	info.Render()

	if len(d.Venues) == 0 {
		return
	}
	fmt.Fprintln(w)
	venues := newTable(w, []string{lang.Label(i18n.Venue), lang.Label(i18n.Pair), lang.Label(i18n.Price), lang.Label(i18n.Volume24h)})
	for _, v := range d.Venues {
		venues.Append([]string{v.Name, v.Base + "/" + v.Quote, format.Price(v.PriceUSD), format.Large(v.VolumeUSD)})
	}
	venues.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func rank(r *int) string {
	if r == nil {
		return "-"
	}
	return strconv.Itoa(*r)
}

func change(v *float64) string {
	switch format.DirectionOf(v) {
	case format.Up:
		return "▲ " + format.Percent(v)
	case format.Down:
		return "▼ " + format.Percent(v)
	}
	return format.Percent(v)
}

func chain(a asset.Asset) string {
	if a.Pair == nil {
		return "-"
	}
	return a.Pair.ChainID
}

func links(l asset.Links) []string {
	var out []string
	for _, u := range []string{l.Homepage, l.Twitter, l.GitHub, l.Whitepaper, l.Explorer, l.Reddit} {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
