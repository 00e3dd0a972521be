package store

import "strconv"

// Prefix is the fixed leading segment of every key written by relog.
const Prefix = "rLog:"

// KeyBuilder builds store keys under one project namespace.
//
// Key layout:
//
//	rLog:<project>[.env]:id           - integer counter, no expiry
//	rLog:<project>[.env]:<code>:<id>  - serialized record, per-type TTL
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a key builder for the namespaced project,
// e.g. NewKeyBuilder("api", ".prod") builds keys under "rLog:api.prod:".
func NewKeyBuilder(project, envSuffix string) KeyBuilder {
	return KeyBuilder{prefix: Prefix + project + envSuffix + ":"}
}

// Counter returns the key of the atomic record ID counter.
func (b KeyBuilder) Counter() string {
	return b.prefix + "id"
}

// Record returns the key for a record of the given type code and ID.
// Type codes are single letters: p, c, s, e.
func (b KeyBuilder) Record(code string, id int64) string {
	return b.prefix + code + ":" + strconv.FormatInt(id, 10)
}

// KeyPrefix returns the full namespace prefix, including the trailing colon.
func (b KeyBuilder) KeyPrefix() string {
	return b.prefix
}
