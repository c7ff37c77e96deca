package metrics

import (
	"strconv"
	"time"
)

// RecordProviderRequest counts one upstream request. code is the HTTP status,
// 0 for transport errors or success without a status.
func RecordProviderRequest(provider string, isSuccess bool, code int, latency time.Duration) {
	counterInc(metricProviderRequests, map[string]string{
		labelProvider:  provider,
		labelIsSuccess: strconv.FormatBool(isSuccess),
		labelCode:      strconv.Itoa(code),
	})
	histogramObserve(metricProviderLatency, float64(latency.Milliseconds()), map[string]string{labelProvider: provider})
}

// RecordDroppedRecords counts malformed records dropped for a provider.
func RecordDroppedRecords(provider string, n int) {
	if n <= 0 {
		return
	}
	counterAdd(metricDroppedRecords, float64(n), map[string]string{labelProvider: provider})
}

// RecordPoll counts one poll cycle outcome; see the Poll* constants.
func RecordPoll(outcome string) {
	counterInc(metricPollOutcomes, map[string]string{labelOutcome: outcome})
}

// RecordSnapshotSize sets the number of assets in the latest snapshot.
func RecordSnapshotSize(n int) {
	gaugeSet(metricPollAssets, float64(n), map[string]string{})
}

// RecordAPIRequest counts one API request by route pattern and status.
func RecordAPIRequest(route string, code int, latency time.Duration) {
	counterInc(metricAPIRequests, map[string]string{labelRoute: route, labelCode: strconv.Itoa(code)})
	histogramObserve(metricAPIRequestTime, float64(latency.Milliseconds()), map[string]string{labelRoute: route})
}
