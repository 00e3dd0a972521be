package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"relog-hq/relog/pkg/store"
)

// Record is the mutable per-request log entry. It is created when a request
// enters the middleware, annotated by downstream handlers through Set and
// SetError, and written to the store under its current classification.
//
// State transitions run forward only: pending, then exactly one of
// completed, slow, or error at response completion. An ignored record is
// never written again.
type Record struct {
	rec   *Recorder
	start time.Time

	// idCh is closed once ID acquisition settles; id and idOK must only
	// be read after the channel is closed.
	idCh chan struct{}
	id   int64
	idOK bool

	// mu serializes all state access and store writes for this record,
	// so at most one write is in flight and old-key deletion always
	// precedes the write that replaces it.
	mu             sync.Mutex
	info           map[string]any
	typ            Type
	writeScheduled bool
	ignored        bool
	done           bool
	lastWritten    Type
	timer          *time.Timer
}

// ID returns the store-assigned record ID. The second return is false
// until acquisition settles, or when acquisition failed.
func (r *Record) ID() (int64, bool) {
	select {
	case <-r.idCh:
		return r.id, r.idOK
	default:
		return 0, false
	}
}

// Type returns the record's current classification.
func (r *Record) Type() Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.typ
}

// Set annotates the record's info map. Downstream handlers use this to
// attach fields such as the authenticated user.
func (r *Record) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info[key] = value
}

// Value returns an info field, or nil when absent.
func (r *Record) Value(key string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info[key]
}

// SetError marks the record as errored. Any truthy value qualifies; at the
// next write the record is classified as type error regardless of duration.
func (r *Record) SetError(v any) {
	r.Set("error", v)
}

// Update re-evaluates the record's classification and rewrites it
// immediately. While the initial pending write is still scheduled this is
// a no-op: the upcoming scheduled write picks up any info mutations on its
// own. Classification happens inside the flush, under the record's mutex,
// so the write always reflects the state it lands in.
func (r *Record) Update() {
	r.mu.Lock()
	if r.writeScheduled || r.ignored || r.done {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	go r.flush(flushUpdate)
}

// Ignore discards the record: the scheduled write is canceled and no
// further write ever occurs for this request, even at completion. A key
// already written before Ignore is not retroactively deleted; it simply
// expires with its TTL.
func (r *Record) Ignore() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ignored = true
	r.writeScheduled = false
	if r.timer != nil {
		r.timer.Stop()
	}
}

// complete handles the response completion event: it cancels any
// outstanding scheduled write, stamps duration and status, classifies the
// record, and triggers the authoritative final write. The write itself runs
// asynchronously so the response is never delayed by store I/O.
func (r *Record) complete(status int, now time.Time) {
	r.mu.Lock()
	if r.ignored || r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	r.writeScheduled = false
	if r.timer != nil {
		r.timer.Stop()
	}

	duration := now.Sub(r.start).Seconds()
	if duration < 0 {
		duration = 0
	}
	r.info["duration"] = roundSig(duration, 3)
	r.info["status"] = status

	typ := r.classifyLocked()
	r.typ = typ
	r.mu.Unlock()

	r.rec.metrics.ObserveRequestDuration(string(typ), duration)

	go r.flush(flushFinal)
}

// pendingFire is the delayed-write timer callback. It writes the record as
// pending unless the response completed, the record was ignored, or the
// schedule was canceled while the timer was in flight.
func (r *Record) pendingFire() {
	r.flush(flushScheduled)
}

// classifyLocked derives the record type from the current info.
// Caller must hold the mutex.
func (r *Record) classifyLocked() Type {
	if truthy(r.info["error"]) {
		return TypeError
	}

	opts := r.rec.opts.Load()
	if opts.slowTime > 0 {
		if d, ok := r.info["duration"].(float64); ok && d > opts.slowTime.Seconds() {
			return TypeSlow
		}
	}
	return TypeCompleted
}

// flushMode identifies which event is driving a store write.
type flushMode int

const (
	// flushScheduled is the delayed pending write.
	flushScheduled flushMode = iota
	// flushUpdate is an explicit rewrite requested through Update.
	flushUpdate
	// flushFinal is the authoritative write at response completion.
	flushFinal
)

// flush performs one store write of the record. The scheduled and update
// flushes both yield to a completion that happened first: the record's
// mutex is taken after the goroutine hand-off, so the done check here is
// what keeps a late-running flush from superseding the terminal write.
func (r *Record) flush(mode flushMode) {
	// ID acquisition runs asynchronously at request start; without an ID
	// there is no key to write under.
	<-r.idCh
	if !r.idOK {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ignored {
		return
	}

	switch mode {
	case flushScheduled:
		if r.done || !r.writeScheduled {
			return
		}
		r.writeScheduled = false
		r.writeLocked(TypePending)
	case flushUpdate:
		if r.done {
			return
		}
		r.writeLocked(r.classifyLocked())
	case flushFinal:
		r.writeLocked(r.typ)
	}
}

// writeLocked performs the store interaction: delete the old key if the
// type migrated, then write the serialized record under the new key with
// its type's TTL. All store errors are logged and swallowed; logging never
// affects the response. Caller must hold the mutex.
func (r *Record) writeLocked(typ Type) {
	rec := r.rec

	if !rec.shouldLog(typ, r.info) {
		rec.logger.Debug("record write suppressed by predicate",
			"id", r.id,
			"type", typ,
		)
		return
	}
	if !rec.breaker.Allow() {
		return
	}

	kv, err := rec.kv()
	if err != nil {
		rec.logger.Debug("store unavailable, skipping write", "id", r.id, "error", err)
		return
	}

	value, err := r.serializeLocked()
	if err != nil {
		rec.logger.Error("record serialization failed", "id", r.id, "error", err)
		return
	}

	ctx := context.Background()

	if r.lastWritten != "" && r.lastWritten != typ {
		oldKey := rec.keys.Record(r.lastWritten.Code(), r.id)
		if err := kv.Del(ctx, oldKey); err != nil {
			rec.logger.Warn("stale record key deletion failed", "key", oldKey, "error", err)
			rec.metrics.RecordWriteFailure("del")
			if store.IsUnavailable(err) {
				rec.breaker.Trip()
			}
		} else {
			rec.metrics.RecordDelete()
		}
	}

	key := rec.keys.Record(typ.Code(), r.id)
	if err := kv.SetEx(ctx, key, rec.ttlFor(typ), value); err != nil {
		rec.logger.Warn("record write failed", "key", key, "error", err)
		rec.metrics.RecordWriteFailure("setex")
		if store.IsUnavailable(err) {
			rec.breaker.Trip()
		}
		return
	}

	r.lastWritten = typ
	r.typ = typ
	rec.metrics.RecordWrite(string(typ))
	rec.logger.Debug("record written", "key", key, "type", typ)
}

// serializeLocked renders info as JSON. A non-plain error annotation is
// stringified for the write and restored afterward, so in-process consumers
// still see the original value while serialization cannot fail on exotic
// error payloads. Caller must hold the mutex.
func (r *Record) serializeLocked() (string, error) {
	orig, hasErr := r.info["error"]
	if hasErr {
		r.info["error"] = plainError(orig)
		defer func() { r.info["error"] = orig }()
	}

	b, err := json.Marshal(r.info)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// plainError reduces an arbitrary error annotation to a JSON-safe value.
func plainError(v any) any {
	switch val := v.(type) {
	case nil, bool, string, int, int64, float64:
		return val
	case error:
		return val.Error()
	default:
		if _, err := json.Marshal(val); err != nil {
			return fmt.Sprint(val)
		}
		return val
	}
}
