// Package i18n holds the supported display languages and the listing labels.
package i18n

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Language is a supported display language code.
type Language string

const (
	English Language = "en"
	Somali  Language = "so"

	// Default is used when nothing has been persisted.
	Default = English
)

// ErrUnsupportedLanguage is returned for tags outside the supported set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var (
	supported = []Language{English, Somali}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.MustParse("so")})
)

// Parse accepts any BCP 47 tag whose base language is supported, e.g. "so-SO".
func Parse(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.Wrap(ErrUnsupportedLanguage, "empty tag")
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", errors.Wrapf(ErrUnsupportedLanguage, "%q: %v", s, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", errors.Wrapf(ErrUnsupportedLanguage, "%q", s)
	}
	return supported[idx], nil
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == English || l == Somali
}

// Toggle flips between English and Somali.
func (l Language) Toggle() Language {
	if l == Somali {
		return English
	}
	return Somali
}

// Key names a translatable label.
type Key string

const (
	Rank       Key = "rank"
	Name       Key = "name"
	Symbol     Key = "symbol"
	Price      Key = "price"
	MarketCap  Key = "marketCap"
	Change24h  Key = "change24h"
	Volume24h  Key = "volume24h"
	Liquidity  Key = "liquidity"
	Supply     Key = "supply"
	Category   Key = "category"
	Chain      Key = "chain"
	Pair       Key = "pair"
	Venue      Key = "venue"
	Links      Key = "links"
	Contract   Key = "contract"
	NoResults  Key = "noResults"
	FetchError Key = "fetchError"
)

var labels = map[Language]map[Key]string{
	English: {
		Rank:       "#",
		Name:       "Name",
		Symbol:     "Symbol",
		Price:      "Price",
		MarketCap:  "Market Cap",
		Change24h:  "24h Change",
		Volume24h:  "24h Volume",
		Liquidity:  "Liquidity",
		Supply:     "Circulating Supply",
		Category:   "Category",
		Chain:      "Chain",
		Pair:       "Pair",
		Venue:      "Exchange",
		Links:      "Links",
		Contract:   "Contract Address",
		NoResults:  "No assets found",
		FetchError: "Error fetching data",
	},
	Somali: {
		Rank:       "#",
		Name:       "Magaca",
		Symbol:     "Astaanta",
		Price:      "Qiimaha",
		MarketCap:  "Suuqa Xaddiga",
		Change24h:  "24h Isbeddelka",
		Volume24h:  "24h Mugga",
		Liquidity:  "Dareeraha",
		Supply:     "Sahayda Wareegaysa",
		Category:   "Qaybta",
		Chain:      "Silsiladda",
		Pair:       "Lammaane",
		Venue:      "Suuqa",
		Links:      "Xiriirro",
		Contract:   "Cinwaanka Qandaraaska",
		NoResults:  "Wax hanti ah lama helin",
		FetchError: "Khalad ayaa dhacay markii xogta la soo qaadayay",
	},
}

// Label returns the translation of k, falling back to English and then to the key itself.
func (l Language) Label(k Key) string {
	if v, ok := labels[l][k]; ok {
		return v
	}
	if v, ok := labels[English][k]; ok {
		return v
	}
	return string(k)
}

// Labels returns every label for l.
func (l Language) Labels() map[Key]string {
	out := make(map[Key]string, len(labels[English]))
	for k := range labels[English] {
		out[k] = l.Label(k)
	}
	return out
}
