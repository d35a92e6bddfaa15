package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	FetchRuns          prometheus.Counter
	FetchFailures      prometheus.Counter
	RecordsNormalized  prometheus.Counter
	MutationsApplied   prometheus.Counter
	MutationFailures   prometheus.Counter
	LoadDuration       prometheus.Histogram
	OpsAlertsSent      prometheus.Counter
	OpsAlertsFailed    prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
