package coincap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/httpx"
	"kriptomarket/internal/log"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
)

// HTTPClient describes an HTTP client. *httpx.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	Name    string
	URL     string
	APIKey  string // optional; sent as Bearer token
	Headers map[string]string
	Limit   int // page size when a request has none
	// MarketsLimit bounds the markets returned for a detail lookup.
	MarketsLimit int
}

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
		cfg.Name = "CoinCap"
	}
	if cfg.URL == "" {
		cfg.URL = "https://rest.coincap.io/v3"
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	if cfg.MarketsLimit <= 0 {
		cfg.MarketsLimit = 50
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Source() asset.Source { return asset.SourceCoinCap }

func (p *Provider) Fetch(ctx context.Context, req provider.Request) ([]normalize.Record, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = p.cfg.Limit
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa((page-1)*limit))

	var body struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := p.get(ctx, "/assets", q, &body); err != nil {
		return nil, provider.NewFetchError(p.cfg.Name, err)
	}
	return normalize.Decode[normalize.CoinCapAsset](asset.SourceCoinCap, body.Data), nil
}

// FetchDetail loads the asset, its markets and the exchange directory in
// parallel. The asset and its markets are required.
func (p *Provider) FetchDetail(ctx context.Context, ref asset.Ref) (normalize.DetailRecord, error) {
	id := strings.TrimSpace(ref.ID)
	if id == "" {
		return nil, provider.NewFetchError(p.cfg.Name, errors.New("asset id is empty"))
	}
	path := "/assets/" + url.PathEscape(id)

	var (
		detail    normalize.CoinCapDetail
		assetBody struct {
			Data *normalize.CoinCapAsset `json:"data"`
		}
		marketsBody struct {
			Data []normalize.CoinCapMarket `json:"data"`
		}
		exchangesBody struct {
			Data []normalize.CoinCapExchange `json:"data"`
		}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.get(gctx, path, nil, &assetBody)
	})
	g.Go(func() error {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(p.cfg.MarketsLimit))
		return p.get(gctx, path+"/markets", q, &marketsBody)
	})
	g.Go(func() error {
		if err := p.get(gctx, "/exchanges", nil, &exchangesBody); err != nil {
			log.Warnw("exchange directory unavailable", "provider", p.cfg.Name, "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, provider.NewFetchError(p.cfg.Name, err)
	}
	if assetBody.Data == nil {
		return nil, provider.NewFetchError(p.cfg.Name, errors.Wrapf(provider.ErrNotFound, "asset %s", id))
	}

	detail.Asset = *assetBody.Data
	detail.Markets = marketsBody.Data
	detail.Exchanges = exchangesBody.Data
	return detail, nil
}

func (p *Provider) get(ctx context.Context, path string, q url.Values, out any) error {
	u := p.cfg.URL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	for k, v := range p.cfg.Headers {
		req.Header.Set(k, v)
	}
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "performing request")
	}
	defer res.Body.Close()
	if err := httpx.CheckStatus(res); err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
