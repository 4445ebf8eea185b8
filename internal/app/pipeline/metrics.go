package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the pipeline's prometheus collectors.
type Metrics struct {
	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	inFlight      prometheus.Gauge
}

// NewMetrics registers the collectors on reg. A nil reg creates unregistered
// collectors, which is what tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vyakaranaa",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome and failure kind.",
		}, []string{"outcome", "kind"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vyakaranaa",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Time spent reaching each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"stage"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vyakaranaa",
			Name:      "artifacts_in_flight",
			Help:      "Temporary artifacts currently stored and not yet released.",
		}),
	}
}

func (m *Metrics) observeStage(stage Stage, since time.Time) {
	m.stageDuration.WithLabelValues(string(stage)).Observe(time.Since(since).Seconds())
}

func (m *Metrics) observeRun(err error) {
	if err == nil {
		m.runs.WithLabelValues("success", "").Inc()
		return
	}
	m.runs.WithLabelValues("failure", string(KindOf(err))).Inc()
}
