package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kriptomarket/internal/log"
)

var (
	mutex       sync.RWMutex
	registry    *prometheus.Registry
	initialized bool

	gauges     map[string]*prometheus.GaugeVec
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
)

func getLogger(metricName, metricType string) *log.Logger {
	return log.WithFields("metricName", metricName, "metricType", metricType)
}

// Init creates the registry and registers every collector. Recording before
// Init is a no-op. Calling it again is harmless.
func Init() {
	mutex.Lock()
	if initialized {
		mutex.Unlock()
		return
	}
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gauges = make(map[string]*prometheus.GaugeVec)
	counters = make(map[string]*prometheus.CounterVec)
	histograms = make(map[string]*prometheus.HistogramVec)
	initialized = true
	mutex.Unlock()

	registerCounter(prometheus.CounterOpts{Name: metricProviderRequests, Help: "Upstream provider requests."}, labelProvider, labelIsSuccess, labelCode)
	registerHistogram(prometheus.HistogramOpts{Name: metricProviderLatency, Help: "Upstream provider latency in milliseconds.", Buckets: prometheus.ExponentialBuckets(25, 2, 10)}, labelProvider)
	registerCounter(prometheus.CounterOpts{Name: metricDroppedRecords, Help: "Malformed records dropped during normalization."}, labelProvider)
	registerCounter(prometheus.CounterOpts{Name: metricPollOutcomes, Help: "Poll cycle outcomes."}, labelOutcome)
	registerGauge(prometheus.GaugeOpts{Name: metricPollAssets, Help: "Assets in the latest applied snapshot."})
	registerCounter(prometheus.CounterOpts{Name: metricAPIRequests, Help: "API requests."}, labelRoute, labelCode)
	registerHistogram(prometheus.HistogramOpts{Name: metricAPIRequestTime, Help: "API latency in milliseconds."}, labelRoute)
}

// Handler serves the registry. It returns 404 until Init is called.
func Handler() http.Handler {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// EndpointOrDefault returns the configured path or the default one.
func (c Config) EndpointOrDefault() string {
	if c.Endpoint == "" {
		return defaultMetricsEndpoint
	}
	return c.Endpoint
}

// StartMetricsHttpServer serves the metrics on their own port until ctx is done.
func StartMetricsHttpServer(ctx context.Context, c Config) error {
	if !c.Enabled || c.Port == "" {
		return nil
	}
	Init()

	mux := http.NewServeMux()
	mux.Handle(c.EndpointOrDefault(), Handler())
	srv := &http.Server{
		Addr:              ":" + c.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("metrics listening on %s%s", srv.Addr, c.EndpointOrDefault())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve metrics http server")
	}
	return nil
}

/*
 * -------------------- Gauge functions --------------------
 */

func registerGauge(opt prometheus.GaugeOpts, labelNames ...string) {
	logger := getLogger(opt.Name, typeGauge)
	mutex.Lock()
	defer mutex.Unlock()
	if !initialized {
		return
	}
	if _, ok := gauges[opt.Name]; ok {
		return
	}

	collector := prometheus.NewGaugeVec(opt, labelNames)
	if err := registry.Register(collector); err != nil {
		logger.Errorf("metrics register error: %v", err)
		return
	}
	gauges[opt.Name] = collector
	logger.Debugf("metrics register successfully")
}

func gaugeSet(name string, value float64, labelValues map[string]string) {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return
	}

	c, ok := gauges[name]
	if !ok {
		getLogger(name, typeGauge).Errorf("collector not found")
		return
	}
	c.With(labelValues).Set(value)
}

/*
 * -------------------- Counter functions --------------------
 */

func registerCounter(opt prometheus.CounterOpts, labelNames ...string) {
	logger := getLogger(opt.Name, typeCounter)
	mutex.Lock()
	defer mutex.Unlock()
	if !initialized {
		return
	}
	if _, ok := counters[opt.Name]; ok {
		return
	}

	collector := prometheus.NewCounterVec(opt, labelNames)
	if err := registry.Register(collector); err != nil {
		logger.Errorf("metrics register error: %v", err)
		return
	}
	counters[opt.Name] = collector
	logger.Debugf("metrics register successfully")
}

func counterAdd(name string, value float64, labelValues map[string]string) {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return
	}

	c, ok := counters[name]
	if !ok {
		getLogger(name, typeCounter).Errorf("collector not found")
		return
	}
	c.With(labelValues).Add(value)
}

func counterInc(name string, labelValues map[string]string) {
	counterAdd(name, 1, labelValues)
}

/*
 * -------------------- Histogram functions --------------------
 */

func registerHistogram(opt prometheus.HistogramOpts, labelNames ...string) {
	logger := getLogger(opt.Name, typeHistogram)
	mutex.Lock()
	defer mutex.Unlock()
	if !initialized {
		return
	}
	if _, ok := histograms[opt.Name]; ok {
		return
	}

	collector := prometheus.NewHistogramVec(opt, labelNames)
	if err := registry.Register(collector); err != nil {
		logger.Errorf("metrics register error: %v", err)
		return
	}
	histograms[opt.Name] = collector
	logger.Debugf("metrics register successfully")
}

func histogramObserve(name string, value float64, labelValues map[string]string) {
	mutex.RLock()
	defer mutex.RUnlock()
	if !initialized {
		return
	}

	c, ok := histograms[name]
	if !ok {
		getLogger(name, typeHistogram).Errorf("collector not found")
		return
	}
	c.With(labelValues).Observe(value)
}
