package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/log"
	"kriptomarket/internal/metrics"
)

var (
	// ErrInFlight is returned when a fetch is already running. The call is
	// dropped, not queued.
	ErrInFlight = errors.New("fetch already in flight")
	// ErrStale is returned when a newer fetch was issued or the poller was
	// invalidated while this one ran. The result is discarded.
	ErrStale = errors.New("stale fetch result discarded")
	// ErrStopped is returned once the poller is stopped. Late results are discarded.
	ErrStopped = errors.New("poller stopped")
)

// FetchFunc runs one fetch cycle.
type FetchFunc func(ctx context.Context) ([]asset.Asset, error)

type Config struct {
	// Interval between fetches. Default 60s.
	Interval time.Duration `mapstructure:"Interval"`
	// Timeout bounds one fetch. Zero means no bound besides Interval.
	Timeout time.Duration `mapstructure:"Timeout"`
	// MaxInterval caps the failure backoff. Default 4x Interval.
	MaxInterval time.Duration `mapstructure:"MaxInterval"`
}

// Snapshot is the last applied state. On failure Assets keeps the previous
// successful result and Err is set.
type Snapshot struct {
	Assets     []asset.Asset
	Err        error
	FetchedAt  time.Time // start of the fetch that produced Assets
	UpdatedAt  time.Time // last applied success or failure
	Generation uint64
}

// Poller owns one polling key: it refreshes on a timer and on demand, with at
// most one fetch in flight.
type Poller struct {
	cfg      Config
	onUpdate func(Snapshot)

	running atomic.Bool

	mu        sync.RWMutex
	fetch     FetchFunc
	issued    uint64
	cancelCur context.CancelFunc
	snap      Snapshot
	failures  int

	life context.Context
	stop context.CancelFunc
}

type Option func(*Poller)

// WithOnUpdate registers a callback run after every applied result.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(p *Poller) {
		p.onUpdate = fn
	}
}

func New(fetch FetchFunc, cfg Config, opts ...Option) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 4 * cfg.Interval
	}
	life, stop := context.WithCancel(context.Background())
	p := &Poller{cfg: cfg, fetch: fetch, life: life, stop: stop}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Latest returns the last applied snapshot.
func (p *Poller) Latest() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Invalidate makes the in-flight fetch, if any, stale and cancels it.
func (p *Poller) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidateLocked()
}

func (p *Poller) invalidateLocked() {
	p.issued++
	if p.cancelCur != nil {
		p.cancelCur()
		p.cancelCur = nil
	}
}

// SetFetch replaces the fetch function and invalidates the in-flight fetch.
func (p *Poller) SetFetch(fetch FetchFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetch = fetch
	p.invalidateLocked()
}

// Stop cancels the in-flight fetch and discards every later result.
func (p *Poller) Stop() {
	p.stop()
}

// Refresh runs one fetch now. It returns ErrInFlight without fetching when
// another fetch is running.
func (p *Poller) Refresh(ctx context.Context) (Snapshot, error) {
	if p.life.Err() != nil {
		return p.Latest(), ErrStopped
	}
	if !p.running.CompareAndSwap(false, true) {
		metrics.RecordPoll(metrics.PollSkipped)
		return p.Latest(), ErrInFlight
	}
	defer p.running.Store(false)

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	unlink := context.AfterFunc(p.life, cancel)
	defer unlink()
	if p.cfg.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		fctx, cancelTimeout = context.WithTimeout(fctx, p.cfg.Timeout)
		defer cancelTimeout()
	}

	p.mu.Lock()
	p.issued++
	gen := p.issued
	p.cancelCur = cancel
	fetch := p.fetch
	p.mu.Unlock()

	start := time.Now()
	assets, err := fetch(fctx)
	return p.apply(ctx, gen, start, assets, err)
}

func (p *Poller) apply(ctx context.Context, gen uint64, start time.Time, assets []asset.Asset, err error) (Snapshot, error) {
	p.mu.Lock()
	if p.issued == gen {
		p.cancelCur = nil
	}
	switch {
	case p.life.Err() != nil:
		snap := p.snap
		p.mu.Unlock()
		metrics.RecordPoll(metrics.PollDiscarded)
		return snap, ErrStopped
	case p.issued != gen:
		snap := p.snap
		p.mu.Unlock()
		metrics.RecordPoll(metrics.PollStale)
		log.Debugw("discarding stale fetch result", "generation", gen)
		return snap, ErrStale
	case ctx.Err() != nil:
		snap := p.snap
		p.mu.Unlock()
		metrics.RecordPoll(metrics.PollDiscarded)
		return snap, ctx.Err()
	}

	now := time.Now()
	if err != nil {
		p.failures++
		p.snap.Err = err
		p.snap.UpdatedAt = now
		p.snap.Generation = gen
		metrics.RecordPoll(metrics.PollFailed)
	} else {
		p.failures = 0
		p.snap = Snapshot{Assets: assets, FetchedAt: start, UpdatedAt: now, Generation: gen}
		metrics.RecordPoll(metrics.PollApplied)
		metrics.RecordSnapshotSize(len(assets))
	}
	snap, failures, cb := p.snap, p.failures, p.onUpdate
	p.mu.Unlock()

	if err != nil {
		log.Warnw("fetch cycle failed", "generation", gen, "consecutiveFailures", failures, "error", err)
	} else {
		log.Debugw("fetch cycle applied", "generation", gen, "assets", len(assets), "took", now.Sub(start))
	}
	if cb != nil {
		cb(snap)
	}
	return snap, err
}

// NextInterval is the wait before the next tick: the base interval, doubled
// after 3 consecutive failures and quadrupled after 6, capped by MaxInterval.
func (p *Poller) NextInterval() time.Duration {
	p.mu.RLock()
	failures := p.failures
	p.mu.RUnlock()

	d := p.cfg.Interval
	switch {
	case failures >= 6:
		d *= 4
	case failures >= 3:
		d *= 2
	}
	if d > p.cfg.MaxInterval {
		d = p.cfg.MaxInterval
	}
	return d
}

// Start fetches immediately and then on every interval until ctx is done or
// the poller is stopped. Ticks that find a fetch in flight are no-ops.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		for {
			if _, err := p.Refresh(ctx); errors.Is(err, ErrInFlight) {
				log.Debugw("poll tick skipped, fetch in flight")
			}
			t := time.NewTimer(p.NextInterval())
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-p.life.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
	}()
}
