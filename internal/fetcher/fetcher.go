package fetcher

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"kriptomarket/internal/aggregate"
	"kriptomarket/internal/asset"
	"kriptomarket/internal/classify"
	"kriptomarket/internal/log"
	"kriptomarket/internal/metrics"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
)

var (
	// ErrUnknownProvider is returned for a source with no registered provider.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrNoProviders is returned when a fetch selects nothing to fetch from.
	ErrNoProviders = errors.New("no providers selected")
)

const defaultDetailTimeout = 30 * time.Second

// Config selects what one fetch cycle asks for.
type Config struct {
	// Sources in merge order. Empty means every registered provider in
	// registration order.
	Sources []asset.Source
	Limit   int
	Page    int
	// Query and Tokens only apply to DEX providers.
	Query  string
	Tokens []string
	// Degrade skips failed providers instead of failing the cycle. The cycle
	// still fails when every provider fails.
	Degrade bool
}

func (c Config) request() provider.Request {
	return provider.Request{Limit: c.Limit, Page: c.Page, Query: c.Query, Tokens: c.Tokens}
}

// Fetcher fans a fetch cycle out to the selected providers and merges the
// normalized results. It holds no application state between calls.
type Fetcher struct {
	providers []provider.Provider
	bySource  map[asset.Source]provider.Provider
	opts      normalize.Options

	detailGroup   singleflight.Group
	detailTimeout time.Duration
}

type Option func(*Fetcher)

// WithNormalizeOptions overrides normalize.DefaultOptions.
func WithNormalizeOptions(opts normalize.Options) Option {
	return func(f *Fetcher) {
		f.opts = opts
	}
}

// WithDetailTimeout bounds one shared detail lookup. Defaults to 30s.
func WithDetailTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.detailTimeout = d
		}
	}
}

// New registers providers. A later provider for an already registered source
// is ignored.
func New(providers []provider.Provider, opts ...Option) *Fetcher {
	f := &Fetcher{
		bySource: make(map[asset.Source]provider.Provider, len(providers)),
		opts:     normalize.DefaultOptions(),

		detailTimeout: defaultDetailTimeout,
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		if _, dup := f.bySource[p.Source()]; dup {
			log.Warnw("duplicate provider ignored", "provider", p.Name(), "source", p.Source())
			continue
		}
		f.bySource[p.Source()] = p
		f.providers = append(f.providers, p)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Sources lists the registered sources in registration order.
func (f *Fetcher) Sources() []asset.Source {
	out := make([]asset.Source, 0, len(f.providers))
	for _, p := range f.providers {
		out = append(out, p.Source())
	}
	return out
}

func (f *Fetcher) selected(sources []asset.Source) ([]provider.Provider, error) {
	if len(sources) == 0 {
		if len(f.providers) == 0 {
			return nil, ErrNoProviders
		}
		return f.providers, nil
	}
	out := make([]provider.Provider, 0, len(sources))
	seen := make(map[asset.Source]struct{}, len(sources))
	for _, s := range sources {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		p, ok := f.bySource[s]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownProvider, "%q", s)
		}
		out = append(out, p)
	}
	return out, nil
}

// FetchAssets runs one fetch cycle. Providers are queried in parallel and the
// call waits for all of them. Results are concatenated in provider order and
// de-duplicated by id, first seen wins. Malformed records are dropped.
//
// Unless cfg.Degrade is set, the first provider failure cancels the others and
// fails the cycle with an error matching provider.ErrFetchFailed.
func (f *Fetcher) FetchAssets(ctx context.Context, cfg Config) ([]asset.Asset, error) {
	providers, err := f.selected(cfg.Sources)
	if err != nil {
		return nil, err
	}
	req := cfg.request()

	results := make([][]normalize.Record, len(providers))
	errs := make([]error, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			recs, err := f.fetchOne(gctx, p, req)
			if err != nil {
				errs[i] = err
				if cfg.Degrade {
					return nil
				}
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batches := make([][]asset.Asset, 0, len(providers))
	var firstErr error
	failed := 0
	for i, p := range providers {
		if errs[i] != nil {
			failed++
			if firstErr == nil {
				firstErr = errs[i]
			}
			log.Warnw("provider skipped", "provider", p.Name(), "error", errs[i])
			continue
		}
		assets, dropped := normalize.Batch(results[i], f.opts)
		if dropped > 0 {
			log.Infow("dropped malformed records", "provider", p.Name(), "dropped", dropped, "kept", len(assets))
			metrics.RecordDroppedRecords(p.Name(), dropped)
		}
		classify.Apply(assets)
		batches = append(batches, assets)
	}
	if failed == len(providers) {
		return nil, errors.Wrapf(firstErr, "all %d providers failed", failed)
	}
	return aggregate.MergeAssets(batches...), nil
}

func (f *Fetcher) fetchOne(ctx context.Context, p provider.Provider, req provider.Request) ([]normalize.Record, error) {
	start := time.Now()
	recs, err := p.Fetch(ctx, req)
	err = provider.NewFetchError(p.Name(), err)
	metrics.RecordProviderRequest(p.Name(), err == nil, provider.StatusCode(err), time.Since(start))
	if err != nil {
		log.Debugw("provider fetch failed", "provider", p.Name(), "error", err)
		return nil, err
	}
	return recs, nil
}

// FetchDetail looks one asset up through its provider's detail endpoint.
// Concurrent lookups of the same ref share one upstream call.
func (f *Fetcher) FetchDetail(ctx context.Context, ref asset.Ref) (asset.Detail, error) {
	p, ok := f.bySource[ref.Source]
	if !ok {
		return asset.Detail{}, errors.Wrapf(ErrUnknownProvider, "%q", ref.Source)
	}

	// The shared lookup outlives any single caller; each caller still stops
	// waiting when its own ctx is done.
	ch := f.detailGroup.DoChan(ref.Key(), func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.detailTimeout)
		defer cancel()

		start := time.Now()
		rec, err := provider.Detail(ctx, p, ref)
		if err != nil && !errors.Is(err, provider.ErrDetailUnsupported) {
			err = provider.NewFetchError(p.Name(), err)
		}
		metrics.RecordProviderRequest(p.Name(), err == nil, provider.StatusCode(err), time.Since(start))
		if err != nil {
			return nil, err
		}
		d, err := normalize.NormalizeDetail(rec, f.opts)
		if err != nil {
			return nil, err
		}
		d.Category = classify.Classify(d.Asset)
		return d, nil
	})

	select {
	case <-ctx.Done():
		return asset.Detail{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return asset.Detail{}, res.Err
		}
		if res.Shared {
			log.Debugw("detail lookup coalesced", "ref", ref.Key())
		}
		return res.Val.(asset.Detail), nil
	}
}
