package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"relog-hq/relog/pkg/config"
	"relog-hq/relog/pkg/recorder"
	"relog-hq/relog/pkg/store"
	"relog-hq/relog/pkg/telemetry/metrics"
)

func newTestServer(t *testing.T, app http.Handler) (*Server, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	collector := metrics.NewCollector(&config.MetricsConfig{
		Enabled:   true,
		Path:      "/metrics",
		Namespace: "relog",
		Subsystem: "recorder",
	}, nil)

	rec, err := recorder.New(func() (store.KV, error) { return mem, nil }, recorder.Options{
		Project:      "testproj",
		PendingDelay: time.Second,
		Metrics:      collector,
	})
	if err != nil {
		t.Fatalf("recorder.New() error = %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	srv := NewServer(
		&config.ServerConfig{
			ListenAddress:   "127.0.0.1:0",
			ShutdownTimeout: time.Second,
		},
		&config.MetricsConfig{Enabled: true, Path: "/metrics"},
		rec,
		collector,
		app,
	)
	return srv, mem
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline: %s", msg)
}

func TestApplicationRoutesRecorded(t *testing.T) {
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv, mem := newTestServer(t, app)
	handler := srv.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/things", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	waitFor(t, func() bool { return mem.SetCalls() == 1 }, "record write")
	if _, err := mem.Get(context.Background(), "rLog:testproj:c:1"); err != nil {
		t.Errorf("record not written: keys = %v", mem.Keys())
	}
}

func TestHealthEndpointBypassesRecorder(t *testing.T) {
	srv, mem := newTestServer(t, nil)
	handler := srv.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("health body is not JSON: %v", err)
	}
	if body["status"] != "ok" || body["store"] != "ok" {
		t.Errorf("health body = %v, want status and store ok", body)
	}

	time.Sleep(50 * time.Millisecond)
	if calls := mem.SetCalls(); calls != 0 {
		t.Errorf("health probe was recorded: SetCalls = %d", calls)
	}
}

func TestHealthReportsStoreOutage(t *testing.T) {
	srv, mem := newTestServer(t, nil)
	mem.SetUnavailable(true)
	handler := srv.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Logging is best-effort: a degraded store must not fail probes.
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200 despite outage", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("health body is not JSON: %v", err)
	}
	if body["store"] != "unavailable" {
		t.Errorf("store = %q, want unavailable", body["store"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	srv, mem := newTestServer(t, app)
	handler := srv.Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/work", nil))
	waitFor(t, func() bool { return mem.SetCalls() == 1 }, "record write")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "relog_recorder_writes_total") {
		t.Error("metrics output missing recorder write counter")
	}
}

func TestPanicRecordedAsError(t *testing.T) {
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	srv, mem := newTestServer(t, app)
	handler := srv.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/explode", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	waitFor(t, func() bool {
		_, err := mem.Get(context.Background(), "rLog:testproj:e:1")
		return err == nil
	}, "error record after panic")

	val, err := mem.Get(context.Background(), "rLog:testproj:e:1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	errVal, _ := info["error"].(string)
	if !strings.Contains(errVal, "boom") {
		t.Errorf("error = %v, want panic message", info["error"])
	}
	if info["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("status = %v, want 500", info["status"])
	}
}
