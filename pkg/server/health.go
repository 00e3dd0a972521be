package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"relog-hq/relog/pkg/recorder"
)

// HealthHandler reports liveness and store connectivity. The endpoint
// returns 200 even when the store is unreachable: logging is best-effort,
// so a degraded store must not fail the host's probes. The store state is
// reported in the body instead.
type HealthHandler struct {
	recorder *recorder.Recorder
}

// NewHealthHandler creates a health check handler.
func NewHealthHandler(rec *recorder.Recorder) *HealthHandler {
	return &HealthHandler{recorder: rec}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	storeStatus := "ok"
	if err := h.recorder.Ping(ctx); err != nil {
		storeStatus = "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"store":  storeStatus,
	})
}
