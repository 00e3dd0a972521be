package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"relog-hq/relog/pkg/recorder"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a
// 500 response without exposing internal details. When the request carries
// a log record, the panic is attached as its error annotation so the record
// is classified as type error at completion.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				if record := recorder.FromContext(r.Context()); record != nil {
					record.SetError(fmt.Sprintf("panic: %v", err))
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "internal server error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
