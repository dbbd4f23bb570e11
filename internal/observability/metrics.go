// Package observability exposes build metrics for serve mode.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/postbuilder/internal/build"
)

// Metrics collects pipeline counters and timings for the /metrics endpoint.
type Metrics struct {
	buildsTotal   *prometheus.CounterVec
	buildDuration prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	postsLoaded   prometheus.Gauge
	issuesTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		buildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postbuilder_builds_total",
			Help: "Completed builds by outcome.",
		}, []string{"outcome"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "postbuilder_build_duration_seconds",
			Help:    "Wall time of full pipeline runs.",
			Buckets: prometheus.DefBuckets,
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "postbuilder_stage_duration_seconds",
			Help:    "Wall time per pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		postsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "postbuilder_posts_loaded",
			Help: "Posts loaded by the most recent build.",
		}),
		issuesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postbuilder_issues_total",
			Help: "Isolated per-document failures by stage.",
		}, []string{"stage"}),
	}
	reg.MustRegister(m.buildsTotal, m.buildDuration, m.stageDuration, m.postsLoaded, m.issuesTotal)
	return m
}

// ObserveBuild records the outcome of one pipeline run.
func (m *Metrics) ObserveBuild(report *build.Report, err error) {
	outcome := "success"
	switch {
	case err != nil:
		outcome = "failure"
	case report != nil && !report.Clean():
		outcome = "partial"
	}
	m.buildsTotal.WithLabelValues(outcome).Inc()

	if report == nil {
		return
	}
	m.buildDuration.Observe(report.Duration().Seconds())
	m.postsLoaded.Set(float64(report.PostCount))
	for stage, dur := range report.StageDurations {
		m.stageDuration.WithLabelValues(string(stage)).Observe(dur.Seconds())
	}
	for _, issue := range report.Issues {
		m.issuesTotal.WithLabelValues(string(issue.Stage)).Inc()
	}
}
