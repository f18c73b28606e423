package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FlightMutations   *prometheus.CounterVec
	EmbedSyncs        *prometheus.CounterVec
	GatewayCalls      *prometheus.CounterVec
	WizardTransitions *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FlightMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_mutations_total",
			Help:      "The total number of persisted flight record mutations",
		}, []string{"operation"}),
		EmbedSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embed_syncs_total",
			Help:      "Message representation syncs by target and outcome",
		}, []string{"target", "outcome"}),
		GatewayCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_calls_total",
			Help:      "Calls made to the Discord API",
		}, []string{"method", "outcome"}),
		WizardTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_transitions_total",
			Help:      "Submission wizard transitions by step and effect",
		}, []string{"step", "effect"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Dashboard API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"kind"}),
	}
}
