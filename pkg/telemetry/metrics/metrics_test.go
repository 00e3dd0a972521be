package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"relog-hq/relog/pkg/config"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	return NewCollector(&config.MetricsConfig{
		Enabled:   true,
		Namespace: "relog",
		Subsystem: "recorder",
	}, nil)
}

func TestCollectorRecordWrite(t *testing.T) {
	c := newTestCollector(t)

	c.RecordWrite("pending")
	c.RecordWrite("pending")
	c.RecordWrite("completed")

	if got := testutil.ToFloat64(c.writesTotal.WithLabelValues("pending")); got != 2 {
		t.Errorf("writes_total{type=pending} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.writesTotal.WithLabelValues("completed")); got != 1 {
		t.Errorf("writes_total{type=completed} = %v, want 1", got)
	}
}

func TestCollectorRecordWriteFailure(t *testing.T) {
	c := newTestCollector(t)

	c.RecordWriteFailure("setex")

	if got := testutil.ToFloat64(c.writeFailuresTotal.WithLabelValues("setex")); got != 1 {
		t.Errorf("write_failures_total{operation=setex} = %v, want 1", got)
	}
}

func TestCollectorBreakerGauge(t *testing.T) {
	c := newTestCollector(t)

	c.SetBreakerOpen(true)
	if got := testutil.ToFloat64(c.breakerOpen); got != 1 {
		t.Errorf("breaker_open = %v, want 1", got)
	}

	c.SetBreakerOpen(false)
	if got := testutil.ToFloat64(c.breakerOpen); got != 0 {
		t.Errorf("breaker_open = %v, want 0", got)
	}
}

func TestCollectorDisabled(t *testing.T) {
	c := NewCollector(&config.MetricsConfig{Enabled: false}, nil)

	c.RecordWrite("pending")
	c.RecordDelete()
	c.RecordIDFailure()

	if got := testutil.ToFloat64(c.writesTotal.WithLabelValues("pending")); got != 0 {
		t.Errorf("disabled collector recorded writes_total = %v, want 0", got)
	}
	if got := testutil.ToFloat64(c.deletesTotal); got != 0 {
		t.Errorf("disabled collector recorded deletes_total = %v, want 0", got)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := newTestCollector(t)
	c.RecordWrite("completed")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("metrics endpoint status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "relog_recorder_writes_total") {
		t.Error("metrics output missing relog_recorder_writes_total")
	}
}
