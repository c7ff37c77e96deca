// Package classify tags assets with a coarse category from name and symbol heuristics.
package classify

import (
	"strings"

	"kriptomarket/internal/asset"
)

// rule matches an asset against keyword sets. All keywords are lower-case.
type rule struct {
	category       asset.Category
	nameContains   []string
	symbolContains []string
	symbols        map[string]struct{}
}

// rules are evaluated in order; the first match wins. Meme comes before AI
// because meme brands often carry AI-sounding substrings.
var rules = []rule{
	{
		category:       asset.CategoryMeme,
		nameContains:   []string{"doge", "shib", "pepe", "floki", "bonk"},
		symbolContains: []string{"doge", "shib", "pepe", "wif", "floki", "bonk"},
	},
	{
		category:     asset.CategoryAI,
		nameContains: []string{"ai", "artificial intelligence"},
	},
	{
		category: asset.CategoryLayer1,
		symbols:  set("btc", "eth", "sol", "ada", "dot"),
	},
	{
		category: asset.CategoryLayer2,
		symbols:  set("matic", "arb", "op"),
	},
}

// Classify returns exactly one category for the asset, CategoryOther when no rule matches.
func Classify(a asset.Asset) asset.Category {
	name := strings.ToLower(a.Name)
	symbol := strings.ToLower(a.Symbol)
	for _, r := range rules {
		if r.matches(name, symbol) {
			return r.category
		}
	}
	return asset.CategoryOther
}

// Apply sets the category of every asset in place.
func Apply(assets []asset.Asset) {
	for i := range assets {
		assets[i].Category = Classify(assets[i])
	}
}

func (r rule) matches(name, symbol string) bool {
	for _, k := range r.nameContains {
		if strings.Contains(name, k) {
			return true
		}
	}
	for _, k := range r.symbolContains {
		if strings.Contains(symbol, k) {
			return true
		}
	}
	if _, ok := r.symbols[symbol]; ok {
		return true
	}
	return false
}

func set(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
