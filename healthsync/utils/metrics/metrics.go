package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	TriageRequestsTotal  *prometheus.CounterVec
	ClassificationsTotal *prometheus.CounterVec
	UpstreamDuration     *prometheus.HistogramVec
	RecordsCreatedTotal  *prometheus.CounterVec
	AppointmentsTotal    prometheus.Counter
}

// NewCollector builds the service metric set on its own registry so test
// processes can create collectors freely.
func NewCollector(serviceName string) *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,

		TriageRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "triage",
			Name:      "requests_total",
			Help:      "Total symptom-report requests by outcome (ok, validation_error, upstream_error).",
		}, []string{"outcome"}),

		ClassificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "triage",
			Name:      "classifications_total",
			Help:      "Triage classifications by level, including unknown.",
		}, []string{"level"}),

		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "upstream",
			Name:      "call_duration_seconds",
			Help:      "Latency of reasoning and extraction backend calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}, []string{"backend"}),

		RecordsCreatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "health_records_created_total",
			Help:      "Health records created by record type.",
		}, []string{"record_type"}),

		AppointmentsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "appointments_scheduled_total",
			Help:      "Total appointments scheduled.",
		}),
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
