// Package metrics records submission metrics with Prometheus. The client is
// a short-lived process, so metrics are exported by writing a node_exporter
// textfile on exit rather than serving an endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "secretsanta"

// Recorder collects submission metrics in a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
	payload     prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "submissions_total",
			Help:      "Finished submission attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from request start to delivery or failure.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		payload: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_payload_bytes",
			Help:      "Size of the last generated spreadsheet.",
		}),
	}
	r.registry.MustRegister(r.submissions, r.duration, r.payload, NewMemoryCollector(Namespace+"_process"))
	return r
}

// ObserveSubmission records one finished attempt. Attempts rejected before
// reaching the network carry a zero duration and are only counted.
func (r *Recorder) ObserveSubmission(outcome string, duration time.Duration, payloadBytes int) {
	r.submissions.WithLabelValues(outcome).Inc()
	if duration > 0 {
		r.duration.Observe(duration.Seconds())
	}
	if payloadBytes > 0 {
		r.payload.Set(float64(payloadBytes))
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
