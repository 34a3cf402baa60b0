package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAPIMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAPIMetrics(reg)
	metrics.Observe("cart.update", "error", 250*time.Millisecond)
	metrics.IncFailure("cart.update", "TRANSPORT_ERROR")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storefront_api_request_failures_total", "code", "TRANSPORT_ERROR"); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "storefront_api_request_duration_seconds", "operation", "cart.update"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCoordinatorMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCoordinatorMetrics(reg)
	metrics.IncStaleDiscard("catalog")
	metrics.IncStaleDiscard("catalog")
	metrics.IncRollback("")
	metrics.SetWorkspaces(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_stale_responses_discarded_total", "coordinator", "catalog"); err != nil || got != 2 {
		t.Fatalf("expected 2 stale discards, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_optimistic_rollbacks_total", "mutation", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected 1 rollback under unknown label, got %f err=%v", got, err)
	}
	mf := findMetricFamily(mfs, "storefront_workspaces_active")
	if mf == nil || mf.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Fatalf("expected workspace gauge of 3")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var api *APIMetrics
	api.Observe("x", "ok", time.Second)
	api.IncFailure("x", "y")
	var coord *CoordinatorMetrics
	coord.IncStaleDiscard("x")
	coord.IncRollback("x")
	coord.SetWorkspaces(1)

	var jobs *JobMetrics
	jobs.Observe("x", time.Second, nil)

	unregistered := NewCoordinatorMetrics(nil)
	unregistered.IncRollback("x")
}

func TestJobMetricsSplitsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewJobMetrics(reg)
	metrics.Observe("workspace.sweep", 10*time.Millisecond, nil)
	metrics.Observe("workspace.sweep", 10*time.Millisecond, errors.New("boom"))
	metrics.Observe("workspace.sweep", 10*time.Millisecond, nil)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_job_runs_total", "outcome", "success"); err != nil || got != 2 {
		t.Fatalf("expected 2 successful runs, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_job_runs_total", "outcome", "failure"); err != nil || got != 1 {
		t.Fatalf("expected 1 failed run, got %f err=%v", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "storefront_job_duration_seconds", "job", "workspace.sweep"); err != nil || got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f err=%v", got, err)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
