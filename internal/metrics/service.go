package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		FetchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_fetch_runs_total",
			Help: "The total number of backend fetch fan-outs started.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_fetch_failures_total",
			Help: "The total number of per-collection fetch failures (degraded loads).",
		}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_records_normalized_total",
			Help: "The total number of raw rows normalized into view models.",
		}),
		MutationsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_mutations_applied_total",
			Help: "The total number of back-office mutations written successfully.",
		}),
		MutationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_mutation_failures_total",
			Help: "The total number of mutations whose backend write failed.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "backoffice_load_duration_seconds",
			Help:    "The duration of full view loads.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		OpsAlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_ops_alerts_sent_total",
			Help: "The total number of ops alerts successfully sent.",
		}),
		OpsAlertsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_ops_alerts_failed_total",
			Help: "The total number of ops alerts that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "backoffice_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.FetchRuns,
		s.FetchFailures,
		s.RecordsNormalized,
		s.MutationsApplied,
		s.MutationFailures,
		s.LoadDuration,
		s.OpsAlertsSent,
		s.OpsAlertsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncFetchRuns() {
	s.FetchRuns.Inc()
}

func (s *Service) IncFetchFailures() {
	s.FetchFailures.Inc()
}

func (s *Service) AddRecordsNormalized(count int) {
	s.RecordsNormalized.Add(float64(count))
}

func (s *Service) IncMutationsApplied() {
	s.MutationsApplied.Inc()
}

func (s *Service) IncMutationFailures() {
	s.MutationFailures.Inc()
}

func (s *Service) ObserveLoadDuration(duration float64) {
	s.LoadDuration.Observe(duration)
}

func (s *Service) IncOpsAlertsSent() {
	s.OpsAlertsSent.Inc()
}

func (s *Service) IncOpsAlertsFailed() {
	s.OpsAlertsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
