package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog"
)

// monitor holds the bot's prometheus metrics.
type monitor struct {
	registry *prometheus.Registry
	// Ballot taps by outcome: added, removed or rejected.
	marks            *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	analysisErrors   prometheus.Counter
}

func newMonitor() *monitor {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &monitor{
		registry: registry,
		marks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rankbot_marks_total",
			Help: "Ballot taps by outcome",
		}, []string{"action"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rankbot_analysis_duration_seconds",
			Help:    "Duration of one race analysis",
			Buckets: prometheus.DefBuckets,
		}),
		analysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rankbot_analysis_errors_total",
			Help: "Race analyses that failed",
		}),
	}
	registry.MustRegister(m.marks, m.analysisDuration, m.analysisErrors)
	return m
}

func markActionLabel(action int) string {
	switch action {
	case markAdded:
		return "added"
	case markRemoved:
		return "removed"
	default:
		return "rejected"
	}
}

func (m *monitor) observeMark(action int) {
	m.marks.WithLabelValues(markActionLabel(action)).Inc()
}

// Serve the registry on addr until the process exits.
func (m *monitor) serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	klog.Infof("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		klog.Errorf("metrics server stopped: %v", err)
	}
}
