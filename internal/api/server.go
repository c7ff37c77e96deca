// Package api serves the aggregated asset snapshot, asset details and the
// language preference as JSON over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/i18n"
	"kriptomarket/internal/log"
	"kriptomarket/internal/metrics"
	"kriptomarket/internal/poller"
)

const (
	defaultRequestTimeout = 15 * time.Second
	defaultMaxBody        = 1 << 20
	maxLimit              = 1000
)

// Snapshots is the polling state the listing routes read.
type Snapshots interface {
	Latest() poller.Snapshot
	Refresh(ctx context.Context) (poller.Snapshot, error)
}

// Details looks a single asset up.
type Details interface {
	FetchDetail(ctx context.Context, ref asset.Ref) (asset.Detail, error)
}

// Preferences stores the display language.
type Preferences interface {
	Language(ctx context.Context) (i18n.Language, error)
	SetLanguage(ctx context.Context, lang i18n.Language) error
	ToggleLanguage(ctx context.Context) (i18n.Language, error)
}

// Targets re-points the polled fetch at another DEX query or token list.
type Targets interface {
	Retarget(query string, tokens []string)
}

type Config struct {
	Port           string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// MetricsEndpoint, when set, serves prometheus metrics on the API port.
	MetricsEndpoint string
}

type Server struct {
	cfg     Config
	snaps   Snapshots
	details Details
	prefs   Preferences
	targets Targets
}

type Option func(*Server)

// WithTargets lets a refresh request carry a new DEX query or token list.
func WithTargets(t Targets) Option {
	return func(s *Server) {
		s.targets = t
	}
}

func New(cfg Config, snaps Snapshots, details Details, prefs Preferences, opts ...Option) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBody
	}
	s := &Server{cfg: cfg, snaps: snaps, details: details, prefs: prefs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/assets", s.handleAssets)
	mux.HandleFunc("POST /api/assets/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/assets/{source}/{id}", s.handleDetail)
	mux.HandleFunc("GET /api/preferences/language", s.handleGetLanguage)
	mux.HandleFunc("PUT /api/preferences/language", s.handlePutLanguage)
	mux.HandleFunc("POST /api/preferences/language/toggle", s.handleToggleLanguage)
	mux.HandleFunc("GET /api/labels", s.handleLabels)

	api := withJSONHeaders(withGzip(recoverPanic(limitBody(s.cfg.MaxBodyBytes, withMetrics(mux)))))
	if s.cfg.MetricsEndpoint == "" {
		return api
	}
	// promhttp negotiates its own encoding and content type
	root := http.NewServeMux()
	root.Handle(s.cfg.MetricsEndpoint, metrics.Handler())
	root.Handle("/", api)
	return root
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("api server listening on :%s", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
