package dexscreener

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/httpx"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
)

const (
	defaultURL   = "https://api.dexscreener.com"
	defaultQuery = "*"
	// MaxTokensPerRequest is the address limit of /latest/dex/tokens.
	MaxTokensPerRequest = 30
)

// HTTPClient describes an HTTP client. *httpx.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls the DEXScreener provider behavior.
type Config struct {
	Name    string
	URL     string
	Query   string            // search term when a request has none
	Headers map[string]string // optional extra headers
	// Parallel bounds concurrent token chunk requests. Default 4.
	Parallel int
	// Timeout bounds each upstream request. Zero leaves it to the caller context.
	Timeout time.Duration
}

// Provider fetches DEX pairs from DEXScreener. The asset id of a pair is its
// pair address.
type Provider struct {
	cfg    Config
	client HTTPClient
}

var (
	_ provider.Provider       = (*Provider)(nil)
	_ provider.DetailProvider = (*Provider)(nil)
)

func New(cfg Config, hc HTTPClient) *Provider {
	if cfg.Name == "" {
		cfg.Name = "DEXScreener"
	}
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.Query == "" {
		cfg.Query = defaultQuery
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 4
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Source() asset.Source { return asset.SourceDexScreener }

// Fetch searches pairs, or loads the pairs of req.Tokens when set. Token
// lists are split into chunks fetched in parallel; any failing chunk fails
// the call. Results keep chunk order. Limit truncates the result.
func (p *Provider) Fetch(ctx context.Context, req provider.Request) ([]normalize.Record, error) {
	var (
		records []normalize.Record
		err     error
	)
	if tokens := cleanTokens(req.Tokens); len(tokens) > 0 {
		records, err = p.fetchTokens(ctx, tokens)
	} else {
		q := strings.TrimSpace(req.Query)
		if q == "" {
			q = p.cfg.Query
		}
		records, err = p.search(ctx, q)
	}
	if err != nil {
		return nil, provider.NewFetchError(p.cfg.Name, err)
	}
	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}
	return records, nil
}

// FetchDetail loads one pair. Without a chain the pair is located through
// the search endpoint.
func (p *Provider) FetchDetail(ctx context.Context, ref asset.Ref) (normalize.DetailRecord, error) {
	addr := strings.TrimSpace(ref.ID)
	if addr == "" {
		return nil, provider.NewFetchError(p.cfg.Name, errors.New("pair address is empty"))
	}

	var (
		records []normalize.Record
		err     error
	)
	if chain := strings.TrimSpace(ref.Chain); chain != "" {
		records, err = p.pairs(ctx, "/latest/dex/pairs/"+url.PathEscape(chain)+"/"+url.PathEscape(addr), nil)
	} else {
		records, err = p.search(ctx, addr)
	}
	if err != nil {
		return nil, provider.NewFetchError(p.cfg.Name, err)
	}
	for _, r := range records {
		if pair, ok := r.(normalize.DexPair); ok && strings.EqualFold(pair.PairAddress, addr) {
			return pair, nil
		}
	}
	return nil, provider.NewFetchError(p.cfg.Name, errors.Wrapf(provider.ErrNotFound, "pair %s", addr))
}

func (p *Provider) search(ctx context.Context, q string) ([]normalize.Record, error) {
	return p.pairs(ctx, "/latest/dex/search", url.Values{"q": []string{q}})
}

func (p *Provider) fetchTokens(ctx context.Context, tokens []string) ([]normalize.Record, error) {
	chunks := chunk(tokens, MaxTokensPerRequest)
	results := make([][]normalize.Record, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Parallel)
	for i, c := range chunks {
		g.Go(func() error {
			recs, err := p.pairs(gctx, "/latest/dex/tokens/"+strings.Join(c, ","), nil)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []normalize.Record
	for _, recs := range results {
		out = append(out, recs...)
	}
	return out, nil
}

// pairsResponse is shared by the search, tokens and pairs endpoints.
type pairsResponse struct {
	SchemaVersion string            `json:"schemaVersion"`
	Pairs         []json.RawMessage `json:"pairs"`
	Pair          json.RawMessage   `json:"pair"`
}

func (p *Provider) pairs(ctx context.Context, path string, q url.Values) ([]normalize.Record, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	u := p.cfg.URL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	for k, v := range p.cfg.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "performing request")
	}
	defer res.Body.Close()
	if err := httpx.CheckStatus(res); err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}

	var body pairsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	raws := body.Pairs
	if len(raws) == 0 && len(body.Pair) > 0 && string(body.Pair) != "null" {
		raws = []json.RawMessage{body.Pair}
	}
	return normalize.Decode[normalize.DexPair](asset.SourceDexScreener, raws), nil
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

func chunk(ss []string, size int) [][]string {
	var out [][]string
	for len(ss) > size {
		out = append(out, ss[:size])
		ss = ss[size:]
	}
	if len(ss) > 0 {
		out = append(out, ss)
	}
	return out
}
