package domain

import (
	"math"
	"time"
)

// Sample is one emotion observation. It is immutable once stored.
type Sample struct {
	ID               string // ULID
	SessionID        string
	Timestamp        time.Time // caller supplied, the window key
	FrustrationScore float64
	FaceDetected     bool
	Metadata         string // opaque, never parsed
	RecordedAt       time.Time
}

// Sample timestamps are persisted as int64 unix nanoseconds, which bounds
// them to roughly 1677-09-21 through 2262-04-11. The lowest int64 is kept
// free so an unbounded query can start strictly below every stored sample.
var (
	EarliestTimestamp = time.Unix(0, math.MinInt64+1).UTC()
	LatestTimestamp   = time.Unix(0, math.MaxInt64).UTC()
)

// Representable reports whether t survives a round trip through unix
// nanoseconds.
func Representable(t time.Time) bool {
	return !t.Before(EarliestTimestamp) && !t.After(LatestTimestamp)
}
