package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/log"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
)

// entry stores one cached upstream answer with expiry. Expired entries stay
// until evicted so they can be served when the upstream fails.
type entry struct {
	expiresAt time.Time
	records   []normalize.Record
	detail    normalize.DetailRecord
}

// Provider caches listing results per request key and detail results per
// asset ref for a TTL.
type Provider struct {
	P        provider.Provider
	TTL      time.Duration
	MaxItems int

	mu    sync.RWMutex
	items map[string]entry
}

var (
	_ provider.Provider       = (*Provider)(nil)
	_ provider.DetailProvider = (*Provider)(nil)
)

func (c *Provider) Name() string { return c.P.Name() }

func (c *Provider) Source() asset.Source { return c.P.Source() }

// Fetch returns the cached records for req while valid. On upstream failure
// the last cached answer is returned, however old.
func (c *Provider) Fetch(ctx context.Context, req provider.Request) ([]normalize.Record, error) {
	if c.TTL <= 0 {
		return c.P.Fetch(ctx, req)
	}

	key := "list:" + req.Key()
	e, fresh, ok := c.lookup(key)
	if ok && fresh {
		return slices.Clone(e.records), nil
	}

	records, err := c.P.Fetch(ctx, req)
	if err != nil {
		if ok {
			log.Warnw("serving stale listing", "provider", c.P.Name(), "age", time.Since(e.expiresAt.Add(-c.TTL)), "error", err)
			return slices.Clone(e.records), nil
		}
		return nil, err
	}
	c.store(key, entry{records: slices.Clone(records)})
	return records, nil
}

// FetchDetail caches detail lookups the same way Fetch caches listings.
func (c *Provider) FetchDetail(ctx context.Context, ref asset.Ref) (normalize.DetailRecord, error) {
	if c.TTL <= 0 {
		return provider.Detail(ctx, c.P, ref)
	}

	key := "detail:" + ref.Key()
	e, fresh, ok := c.lookup(key)
	if ok && fresh {
		return e.detail, nil
	}

	rec, err := provider.Detail(ctx, c.P, ref)
	if err != nil {
		if ok && !provider.IsNotFound(err) {
			log.Warnw("serving stale detail", "provider", c.P.Name(), "ref", ref.Key(), "error", err)
			return e.detail, nil
		}
		return nil, err
	}
	c.store(key, entry{detail: rec})
	return rec, nil
}

func (c *Provider) lookup(key string) (entry, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	return e, ok && time.Now().Before(e.expiresAt), ok
}

func (c *Provider) store(key string, e entry) {
	now := time.Now()
	e.expiresAt = now.Add(c.TTL)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]entry)
	}
	c.items[key] = e

	// best-effort cap cache size: expired first, then arbitrary
	if c.MaxItems > 0 && len(c.items) > c.MaxItems {
		for k, v := range c.items {
			if len(c.items) <= c.MaxItems {
				break
			}
			if k != key && now.After(v.expiresAt) {
				delete(c.items, k)
			}
		}
		for k := range c.items {
			if len(c.items) <= c.MaxItems {
				break
			}
			if k != key {
				delete(c.items, k)
			}
		}
	}
}
