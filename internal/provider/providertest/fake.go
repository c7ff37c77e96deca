// Package providertest provides a scriptable provider for tests.
package providertest

import (
	"context"
	"sync"
	"sync/atomic"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
)

// Fake is a provider.Provider and provider.DetailProvider whose answers are
// set by the test. A nil FetchFunc returns Records and Err.
type Fake struct {
	ProviderName string
	Src          asset.Source

	FetchFunc  func(ctx context.Context, req provider.Request) ([]normalize.Record, error)
	DetailFunc func(ctx context.Context, ref asset.Ref) (normalize.DetailRecord, error)

	mu      sync.Mutex
	records []normalize.Record
	err     error

	calls       atomic.Int32
	detailCalls atomic.Int32
}

var (
	_ provider.Provider       = (*Fake)(nil)
	_ provider.DetailProvider = (*Fake)(nil)
)

// New returns a Fake answering with records.
func New(name string, src asset.Source, records ...normalize.Record) *Fake {
	return &Fake{ProviderName: name, Src: src, records: records}
}

// Set replaces the canned answer.
func (f *Fake) Set(records []normalize.Record, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records, f.err = records, err
}

func (f *Fake) Name() string { return f.ProviderName }

func (f *Fake) Source() asset.Source { return f.Src }

func (f *Fake) Fetch(ctx context.Context, req provider.Request) ([]normalize.Record, error) {
	f.calls.Add(1)
	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]normalize.Record(nil), f.records...), nil
}

func (f *Fake) FetchDetail(ctx context.Context, ref asset.Ref) (normalize.DetailRecord, error) {
	f.detailCalls.Add(1)
	if f.DetailFunc == nil {
		return nil, provider.ErrDetailUnsupported
	}
	return f.DetailFunc(ctx, ref)
}

// Calls is the number of Fetch calls so far.
func (f *Fake) Calls() int { return int(f.calls.Load()) }

// DetailCalls is the number of FetchDetail calls so far.
func (f *Fake) DetailCalls() int { return int(f.detailCalls.Load()) }

// Market builds a valid CoinGecko listing record.
func Market(id, symbol, name string, price float64) normalize.CoinGeckoMarket {
	return normalize.CoinGeckoMarket{ID: id, Symbol: symbol, Name: name, CurrentPrice: &price}
}

// Pair builds a valid DEX pair record.
func Pair(chain, addr, symbol, name string) normalize.DexPair {
	return normalize.DexPair{
		ChainID:     chain,
		DexID:       "uniswap",
		PairAddress: addr,
		BaseToken:   &normalize.DexToken{Address: "base-" + addr, Name: name, Symbol: symbol},
		QuoteToken:  &normalize.DexToken{Symbol: "WETH"},
		PriceUSD:    "1.0",
	}
}

// CoinCap builds a valid CoinCap listing record.
func CoinCap(id, symbol, name string) normalize.CoinCapAsset {
	return normalize.CoinCapAsset{ID: id, Symbol: symbol, Name: name, Rank: "1"}
}
