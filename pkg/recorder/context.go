package recorder

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var recordKey = contextKey{}

// WithRecord returns a context carrying the request's log record.
func WithRecord(ctx context.Context, r *Record) context.Context {
	return context.WithValue(ctx, recordKey, r)
}

// FromContext returns the request's log record, or nil when the request
// was not recorded (OPTIONS/HEAD, or outside the middleware).
func FromContext(ctx context.Context) *Record {
	r, _ := ctx.Value(recordKey).(*Record)
	return r
}
