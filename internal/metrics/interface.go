package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncFetchRuns()
	IncFetchFailures()
	AddRecordsNormalized(count int)
	IncMutationsApplied()
	IncMutationFailures()
	ObserveLoadDuration(duration float64)
	IncOpsAlertsSent()
	IncOpsAlertsFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists named counters across restarts, independent of the
// Prometheus process-local registry.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
