package ratelimit

import (
	"context"
	"sync"
	"time"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/normalize"
	"kriptomarket/internal/provider"
)

// MinInterval wraps a provider and enforces a minimum time between upstream
// calls. Listing and detail calls share the gate.
type MinInterval struct {
	P        provider.Provider
	Interval time.Duration

	mu   sync.Mutex
	next time.Time
}

var (
	_ provider.Provider       = (*MinInterval)(nil)
	_ provider.DetailProvider = (*MinInterval)(nil)
)

func (m *MinInterval) Name() string { return m.P.Name() }

func (m *MinInterval) Source() asset.Source { return m.P.Source() }

func (m *MinInterval) Fetch(ctx context.Context, req provider.Request) ([]normalize.Record, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.P.Fetch(ctx, req)
}

func (m *MinInterval) FetchDetail(ctx context.Context, ref asset.Ref) (normalize.DetailRecord, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return provider.Detail(ctx, m.P, ref)
}

// wait reserves the next slot so concurrent callers are spaced out instead
// of all firing once the interval elapses.
func (m *MinInterval) wait(ctx context.Context) error {
	if m.Interval <= 0 {
		return nil
	}
	m.mu.Lock()
	now := time.Now()
	slot := m.next
	if slot.Before(now) {
		slot = now
	}
	m.next = slot.Add(m.Interval)
	m.mu.Unlock()

	d := time.Until(slot)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
