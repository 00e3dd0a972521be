package recorder

import "time"

// Type classifies a request log record. A record starts as pending and is
// reclassified exactly once at response completion into one of the terminal
// types: completed, slow, or error.
type Type string

const (
	// TypePending marks a request still in flight past the pending delay.
	TypePending Type = "pending"
	// TypeCompleted marks a request that finished normally.
	TypeCompleted Type = "completed"
	// TypeSlow marks a request that finished but exceeded the slow threshold.
	TypeSlow Type = "slow"
	// TypeError marks a request whose record carries an error annotation.
	TypeError Type = "error"
)

// Code returns the single-letter key segment for the type.
func (t Type) Code() string {
	switch t {
	case TypePending:
		return "p"
	case TypeCompleted:
		return "c"
	case TypeSlow:
		return "s"
	case TypeError:
		return "e"
	default:
		return ""
	}
}

// defaultTTL holds the expiration applied to stored records when no
// per-type override is configured.
var defaultTTL = map[Type]time.Duration{
	TypePending:   10 * 24 * time.Hour,
	TypeCompleted: 24 * time.Hour,
	TypeSlow:      10 * 24 * time.Hour,
	TypeError:     10 * 24 * time.Hour,
}
