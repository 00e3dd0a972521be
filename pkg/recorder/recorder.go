package recorder

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"relog-hq/relog/pkg/config"
	"relog-hq/relog/pkg/store"
	"relog-hq/relog/pkg/telemetry/metrics"

	"github.com/google/uuid"
)

// MustLogFunc decides whether a record is persisted under the candidate
// type. It is called with the record's live info map under the record's
// lock; implementations must not retain the map or call back into the
// record.
type MustLogFunc func(typ Type, info map[string]any) bool

// Options configures a Recorder.
type Options struct {
	// Project is the project name used to namespace store keys.
	// Required. Must match (?i)^[a-z_\-. ]+$.
	Project string

	// Environment selects the namespace suffix appended to the project
	// name (".test", ".prod", ".dev", or none).
	Environment config.Environment

	// PendingDelay is how long a request must stay in flight before it is
	// written as a pending record. Zero means the 4 second default.
	PendingDelay time.Duration

	// SlowTime is the duration above which a completed request is
	// classified as slow. Zero disables slow detection.
	SlowTime time.Duration

	// TTL contains per-type expiration overrides. Missing or zero entries
	// fall back to the type defaults (pending=10d, completed=1d, slow=10d,
	// error=10d).
	TTL map[Type]time.Duration

	// LogTypes is an allow-list of record types to persist. Empty means
	// all types. Ignored when MustLog is set.
	LogTypes []Type

	// MustLog overrides the default allow-list predicate.
	MustLog MustLogFunc

	// BodyLimit caps the request body bytes captured into a record.
	// Zero means the 64KB default; negative disables body capture.
	BodyLimit int

	// BreakerCooldown is how long store access is suppressed after a
	// connection-level failure. Zero disables the circuit breaker.
	BreakerCooldown time.Duration

	// Metrics receives recorder metrics. Nil disables metrics collection.
	Metrics *metrics.Collector
}

// runtimeOptions holds the options that may change under hot reload.
// Swapped atomically so in-flight records pick up the latest values
// without locking.
type runtimeOptions struct {
	slowTime time.Duration
	ttl      map[Type]time.Duration
	logTypes map[Type]bool
}

// Recorder is the request-logging middleware. One Recorder serves all
// requests of a project; each request gets its own Record. The store
// connection is opened lazily on first use and shared across requests.
type Recorder struct {
	opener       store.Opener
	keys         store.KeyBuilder
	logger       *slog.Logger
	metrics      *metrics.Collector
	breaker      *breaker
	mustLog      MustLogFunc
	pendingDelay time.Duration
	bodyLimit    int

	opts atomic.Pointer[runtimeOptions]

	connMu sync.Mutex
	conn   store.KV
}

// New creates a Recorder. An invalid project name is a fatal configuration
// error and fails construction.
func New(opener store.Opener, opts Options) (*Recorder, error) {
	if err := config.ValidateProjectName(opts.Project); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "recorder")

	collector := opts.Metrics
	if collector == nil {
		collector = metrics.NewCollector(&config.MetricsConfig{Enabled: false}, nil)
	}

	pendingDelay := opts.PendingDelay
	if pendingDelay == 0 {
		pendingDelay = 4 * time.Second
	}
	bodyLimit := opts.BodyLimit
	if bodyLimit == 0 {
		bodyLimit = 64 * 1024
	}

	rec := &Recorder{
		opener:       opener,
		keys:         store.NewKeyBuilder(opts.Project, opts.Environment.Suffix()),
		logger:       logger,
		metrics:      collector,
		mustLog:      opts.MustLog,
		pendingDelay: pendingDelay,
		bodyLimit:    bodyLimit,
	}
	rec.breaker = newBreaker(opts.BreakerCooldown, logger, collector.SetBreakerOpen)
	rec.opts.Store(compileRuntimeOptions(opts.SlowTime, opts.TTL, opts.LogTypes))

	return rec, nil
}

// SetRuntimeOptions replaces the hot-reloadable options (slow threshold,
// per-type TTLs, log type allow-list). Safe to call while requests are in
// flight.
func (rec *Recorder) SetRuntimeOptions(slowTime time.Duration, ttl map[Type]time.Duration, logTypes []Type) {
	rec.opts.Store(compileRuntimeOptions(slowTime, ttl, logTypes))
	rec.logger.Info("recorder options updated", "slow_time", slowTime)
}

func compileRuntimeOptions(slowTime time.Duration, ttl map[Type]time.Duration, logTypes []Type) *runtimeOptions {
	opts := &runtimeOptions{
		slowTime: slowTime,
		ttl:      make(map[Type]time.Duration, len(defaultTTL)),
	}
	for typ, d := range defaultTTL {
		if override, ok := ttl[typ]; ok && override > 0 {
			d = override
		}
		opts.ttl[typ] = d
	}
	if len(logTypes) > 0 {
		opts.logTypes = make(map[Type]bool, len(logTypes))
		for _, t := range logTypes {
			opts.logTypes[t] = true
		}
	}
	return opts
}

// Middleware wraps next with request logging. OPTIONS and HEAD requests
// pass through untouched.
func (rec *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		record := rec.newRecord(r)
		if id, ok := record.info["requestId"].(string); ok {
			w.Header().Set("X-Request-Id", id)
		}

		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r.WithContext(WithRecord(r.Context(), record)))

		record.complete(ww.status, time.Now())
	})
}

// newRecord captures the request's static attributes, schedules the delayed
// pending write, and kicks off asynchronous ID acquisition.
func (rec *Recorder) newRecord(r *http.Request) *Record {
	start := time.Now()

	info := map[string]any{
		"url":       r.URL.RequestURI(),
		"method":    r.Method,
		"body":      rec.captureBody(r),
		"language":  r.Header.Get("Accept-Language"),
		"time":      float64(start.UnixNano()) / float64(time.Second),
		"ip":        clientIP(r),
		"requestId": requestID(r),
	}
	if referer := r.Referer(); referer != "" {
		info["referer"] = referer
	}
	if ua := r.UserAgent(); ua != "" {
		info["userAgent"] = ua
	}

	record := &Record{
		rec:            rec,
		start:          start,
		idCh:           make(chan struct{}),
		info:           info,
		typ:            TypePending,
		writeScheduled: true,
	}
	record.timer = time.AfterFunc(rec.pendingDelay, record.pendingFire)

	go rec.acquireID(record)

	return record
}

// acquireID fetches the next value of the project's atomic counter. On
// failure the request proceeds without logging for this record.
func (rec *Recorder) acquireID(record *Record) {
	defer close(record.idCh)

	kv, err := rec.kv()
	if err != nil {
		rec.logger.Debug("store unavailable, record not assigned an id", "error", err)
		rec.metrics.RecordIDFailure()
		return
	}

	id, err := kv.Incr(context.Background(), rec.keys.Counter())
	if err != nil {
		rec.logger.Warn("record id acquisition failed", "error", err)
		rec.metrics.RecordIDFailure()
		if store.IsUnavailable(err) {
			rec.breaker.Trip()
		}
		return
	}

	record.id = id
	record.idOK = true
}

// kv returns the shared store connection, opening it on first use.
func (rec *Recorder) kv() (store.KV, error) {
	if !rec.breaker.Allow() {
		return nil, store.ErrUnavailable
	}

	rec.connMu.Lock()
	defer rec.connMu.Unlock()

	if rec.conn != nil {
		return rec.conn, nil
	}

	kv, err := rec.opener()
	if err != nil {
		if store.IsUnavailable(err) {
			rec.breaker.Trip()
		}
		return nil, err
	}
	rec.conn = kv
	return kv, nil
}

// shouldLog applies the configured predicate to a candidate write.
func (rec *Recorder) shouldLog(typ Type, info map[string]any) bool {
	if rec.mustLog != nil {
		return rec.mustLog(typ, info)
	}
	opts := rec.opts.Load()
	if opts.logTypes == nil {
		return true
	}
	return opts.logTypes[typ]
}

// ttlFor returns the expiration for records of the given type.
func (rec *Recorder) ttlFor(typ Type) time.Duration {
	return rec.opts.Load().ttl[typ]
}

// Ping checks store connectivity, opening the connection if needed.
// Used by health endpoints.
func (rec *Recorder) Ping(ctx context.Context) error {
	kv, err := rec.kv()
	if err != nil {
		return err
	}
	return kv.Ping(ctx)
}

// Close releases the store connection. In-flight writes racing with Close
// fail and are swallowed like any other store error.
func (rec *Recorder) Close() error {
	rec.connMu.Lock()
	defer rec.connMu.Unlock()

	if rec.conn == nil {
		return nil
	}
	err := rec.conn.Close()
	rec.conn = nil
	return err
}

// captureBody reads up to bodyLimit bytes of the request body for the
// record and splices them back so downstream handlers see the full body.
func (rec *Recorder) captureBody(r *http.Request) string {
	if rec.bodyLimit < 0 || r.Body == nil || r.Body == http.NoBody {
		return ""
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, int64(rec.bodyLimit)))
	if err != nil {
		rec.logger.Debug("request body capture failed", "error", err)
		return ""
	}
	r.Body = &splicedBody{
		Reader: io.MultiReader(bytes.NewReader(buf), r.Body),
		closer: r.Body,
	}
	return string(buf)
}

// splicedBody re-joins captured body bytes with the unread remainder.
type splicedBody struct {
	io.Reader
	closer io.Closer
}

func (b *splicedBody) Close() error {
	return b.closer.Close()
}

// clientIP resolves the client address, preferring X-Forwarded-For over
// the connection-level remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop in a comma-separated chain.
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requestID honors an inbound X-Request-Id header, generating a UUID when
// the client did not send one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.NewString()
}

// responseWriter wraps http.ResponseWriter to capture the final status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher when the underlying writer supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
