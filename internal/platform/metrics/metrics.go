package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for scraping sessions. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	SessionsCreated  prometheus.Counter
	SessionsFinished *prometheus.CounterVec
	RunDuration      prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		SessionsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "scraper_sessions_created_total",
			Help: "The total number of scraping sessions created",
		}),
		SessionsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_sessions_finished_total",
			Help: "The total number of scraping sessions that reached a terminal status",
		}, []string{"status"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_session_run_seconds",
			Help:    "Time from fetch start to terminal status",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncCreated() {
	if m == nil {
		return
	}
	m.SessionsCreated.Inc()
}

func (m *Metrics) ObserveFinished(status string, took time.Duration) {
	if m == nil {
		return
	}
	m.SessionsFinished.WithLabelValues(status).Inc()
	m.RunDuration.Observe(took.Seconds())
}
