package main

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMonitor_observeMark(t *testing.T) {
	m := newMonitor()
	m.observeMark(markAdded)
	m.observeMark(markAdded)
	m.observeMark(markRemoved)
	m.observeMark(markRejected)

	for label, expected := range map[string]float64{"added": 2, "removed": 1, "rejected": 1} {
		if actual := testutil.ToFloat64(m.marks.WithLabelValues(label)); actual != expected {
			t.Errorf("marks{action=%q} = %v, expected %v", label, actual, expected)
		}
	}
}

func TestMonitor_registered(t *testing.T) {
	m := newMonitor()
	m.analysisDuration.Observe(0.25)
	m.analysisErrors.Inc()

	if n := testutil.CollectAndCount(m.analysisDuration); n != 1 {
		t.Errorf("analysis duration collected %d series, expected 1", n)
	}
	if actual := testutil.ToFloat64(m.analysisErrors); actual != 1 {
		t.Errorf("analysis errors = %v, expected 1", actual)
	}
	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("could not gather metrics: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "rankbot_analysis_errors_total" {
			found = true
		}
	}
	if !found {
		t.Errorf("rankbot_analysis_errors_total is not registered")
	}
}
