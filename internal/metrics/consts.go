package metrics

const (
	defaultMetricsEndpoint = "/metrics"
)

// Metric types
const (
	typeCounter   = "counter"
	typeHistogram = "histogram"
	typeGauge     = "gauge"
)

// Metric names and labels
const (
	prefix = "kriptomarket_"

	prefixProvider         = prefix + "provider_"
	metricProviderRequests = prefixProvider + "request_count"
	metricProviderLatency  = prefixProvider + "request_latency_ms"
	metricDroppedRecords   = prefixProvider + "dropped_records"
	labelProvider          = "provider"
	labelIsSuccess         = "success"
	labelCode              = "code"

	prefixPoll         = prefix + "poll_"
	metricPollOutcomes = prefixPoll + "outcome_count"
	metricPollAssets   = prefixPoll + "assets"
	labelOutcome       = "outcome"

	prefixAPI            = prefix + "api_"
	metricAPIRequests    = prefixAPI + "request_count"
	metricAPIRequestTime = prefixAPI + "request_latency_ms"
	labelRoute           = "route"
)

// Poll outcomes
const (
	PollApplied   = "applied"
	PollStale     = "stale"
	PollSkipped   = "skipped"
	PollFailed    = "failed"
	PollDiscarded = "discarded"
)
