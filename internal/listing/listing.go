// Package listing filters and orders asset snapshots for display.
package listing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"kriptomarket/internal/asset"
)

var (
	ErrUnknownSortKey  = errors.New("unknown sort key")
	ErrUnknownOrder    = errors.New("unknown sort order")
	ErrUnknownCategory = errors.New("unknown category")
)

// Query selects the assets to show. Zero values match everything.
type Query struct {
	// Search matches symbol, name, id and the DEX quote symbol, case-insensitively.
	Search string
	// Category "" or "all" matches every category.
	Category asset.Category
	// Chains restricts to DEX pairs on these chain ids. Listing-provider assets
	// have no chain and never match a non-empty set.
	Chains []string
	Source asset.Source
}

// ParseCategory accepts the category keys plus "all".
func ParseCategory(s string) (asset.Category, error) {
	c := asset.Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" || c == asset.CategoryAll {
		return asset.CategoryAll, nil
	}
	if slices.Contains(asset.Categories, c) {
		return c, nil
	}
	return "", errors.Wrapf(ErrUnknownCategory, "%q", s)
}

// Filter returns the matching assets in their original order. The input is
// not modified.
func Filter(assets []asset.Asset, q Query) []asset.Asset {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	chains := make(map[string]struct{}, len(q.Chains))
	for _, c := range q.Chains {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			chains[c] = struct{}{}
		}
	}

	out := make([]asset.Asset, 0, len(assets))
	for _, a := range assets {
		if q.Category != "" && q.Category != asset.CategoryAll && a.Category != q.Category {
			continue
		}
		if q.Source != "" && a.Source != q.Source {
			continue
		}
		if len(chains) > 0 {
			if a.Pair == nil {
				continue
			}
			if _, ok := chains[strings.ToLower(a.Pair.ChainID)]; !ok {
				continue
			}
		}
		if search != "" && !matches(a, search) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matches(a asset.Asset, search string) bool {
	fields := []string{a.Symbol, a.Name, a.ID}
	if a.Pair != nil {
		fields = append(fields, a.Pair.QuoteSymbol)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// SortKey names a sortable column.
type SortKey string

const (
	SortRank      SortKey = "rank"
	SortPrice     SortKey = "price"
	SortChange    SortKey = "change"
	SortMarketCap SortKey = "marketcap"
	SortVolume    SortKey = "volume"
	SortLiquidity SortKey = "liquidity"
	SortName      SortKey = "name"
)

var SortKeys = []SortKey{SortRank, SortPrice, SortChange, SortMarketCap, SortVolume, SortLiquidity, SortName}

// Order is the sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return SortRank, nil
	}
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", errors.Wrapf(ErrUnknownSortKey, "%q", s)
}

// ParseOrder defaults to the natural order of key: ascending for rank and
// name, descending for amounts.
func ParseOrder(s string, key SortKey) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		if key == SortRank || key == SortName {
			return Asc, nil
		}
		return Desc, nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", errors.Wrapf(ErrUnknownOrder, "%q", s)
}

// Sort orders assets in place, stable. Unknown values sort last in both
// directions.
func Sort(assets []asset.Asset, key SortKey, order Order) {
	if key == SortName {
		slices.SortStableFunc(assets, func(a, b asset.Asset) int {
			c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
			if order == Desc {
				return -c
			}
			return c
		})
		return
	}

	value := numeric(key)
	slices.SortStableFunc(assets, func(a, b asset.Asset) int {
		va, vb := value(a), value(b)
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}
		c := cmp.Compare(*va, *vb)
		if order == Desc {
			return -c
		}
		return c
	})
}

func numeric(key SortKey) func(asset.Asset) *float64 {
	switch key {
	case SortPrice:
		return func(a asset.Asset) *float64 { return a.PriceUSD }
	case SortChange:
		return func(a asset.Asset) *float64 { return a.PriceChangePercent24h }
	case SortMarketCap:
		return func(a asset.Asset) *float64 { return a.MarketCapUSD }
	case SortVolume:
		return func(a asset.Asset) *float64 { return a.VolumeUSD24h }
	case SortLiquidity:
		return func(a asset.Asset) *float64 { return a.LiquidityUSD }
	default:
		return func(a asset.Asset) *float64 {
			if a.Rank == nil {
				return nil
			}
			r := float64(*a.Rank)
			return &r
		}
	}
}

// Page returns the first limit assets; limit <= 0 returns all.
func Page(assets []asset.Asset, limit int) []asset.Asset {
	if limit <= 0 || limit >= len(assets) {
		return assets
	}
	return assets[:limit]
}
