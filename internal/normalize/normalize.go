// Package normalize maps provider payloads onto the canonical asset model.
//
// Each provider variant has its own mapping function. Mapping never panics on
// missing nested fields: absent or unusable numbers become nil. A record that
// lacks its mandatory identity (id or pair address, name, symbol) is rejected
// with ErrMalformedRecord so the caller can drop it without failing the batch.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/log"
)

// ErrMalformedRecord marks a record missing a mandatory field.
var ErrMalformedRecord = errors.New("malformed record")

// DefaultCoinCapIconURL derives CoinCap images from the lower-case symbol.
const DefaultCoinCapIconURL = "https://assets.coincap.io/assets/icons/%s@2x.png"

// Options configures the mappings that need more than the record itself.
type Options struct {
	// CoinCapIconURL is a fmt template receiving the lower-case symbol. Empty disables CoinCap images.
	CoinCapIconURL string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{CoinCapIconURL: DefaultCoinCapIconURL}
}

// Normalize maps one listing record onto an Asset. The Category is left for the classifier.
func Normalize(r Record, opts Options) (asset.Asset, error) {
	switch rec := r.(type) {
	case CoinGeckoMarket:
		return fromCoinGeckoMarket(rec)
	case *CoinGeckoMarket:
		return fromCoinGeckoMarket(*rec)
	case DexPair:
		return fromDexPair(rec)
	case *DexPair:
		return fromDexPair(*rec)
	case CoinCapAsset:
		return fromCoinCapAsset(rec, opts)
	case *CoinCapAsset:
		return fromCoinCapAsset(*rec, opts)
	case Undecodable:
		return asset.Asset{}, errors.Wrapf(ErrMalformedRecord, "%s: %v", rec.Provider, rec.Err)
	case nil:
		return asset.Asset{}, errors.Wrap(ErrMalformedRecord, "nil record")
	default:
		return asset.Asset{}, errors.Wrapf(ErrMalformedRecord, "unsupported record type %T", r)
	}
}

// Batch normalizes every record, dropping malformed ones. It returns the
// assets in input order and the number of dropped records.
func Batch(records []Record, opts Options) ([]asset.Asset, int) {
	out := make([]asset.Asset, 0, len(records))
	dropped := 0
	for i, r := range records {
		a, err := Normalize(r, opts)
		if err != nil {
			dropped++
			log.Debugw("dropping record", "index", i, "error", err)
			continue
		}
		out = append(out, a)
	}
	return out, dropped
}

// Decode unmarshals each raw element into T. Elements that fail to decode
// become Undecodable records instead of failing the whole payload.
func Decode[T Record](src asset.Source, raws []json.RawMessage) []Record {
	out := make([]Record, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			out = append(out, Undecodable{Provider: src, Raw: raw, Err: err})
			continue
		}
		out = append(out, rec)
	}
	return out
}

func malformed(src asset.Source, format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedRecord, string(src)+": "+format, args...)
}

// finite drops NaN and Inf.
func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	x := *v
	return &x
}

// nonNegative drops NaN, Inf and negative values.
func nonNegative(v *float64) *float64 {
	v = finite(v)
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

func positive(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	x := *v
	return &x
}

// parseNumber reads a decimal string. Empty or unparsable strings are unknown.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return finite(&f)
}

func parseNullableNumber(s *string) *float64 {
	if s == nil {
		return nil
	}
	return parseNumber(*s)
}

func parseRank(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return positive(&n)
}

func pick(m map[string]float64, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	return &v
}

func first(ss []string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
