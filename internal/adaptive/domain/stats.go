package domain

import "time"

// DefaultHighThreshold is the score a sample must exceed to count as high
// frustration.
const DefaultHighThreshold = 0.7

// Window is the half open interval (Since, Until] of sample timestamps.
//
// Trailing windows end at the server's now, so a sample stamped ahead of it
// by a fast client clock stays out of every window until now catches up. It
// is stored and counted from then on.
type Window struct {
	Since time.Time
	Until time.Time
}

// TrailingWindow returns the window of the given length ending at now. A
// non-positive length yields an empty window.
func TrailingWindow(now time.Time, length time.Duration) Window {
	if length <= 0 {
		return Window{Since: now, Until: now}
	}
	return Window{Since: now.Add(-length), Until: now}
}

// Empty reports whether no instant can fall inside w.
func (w Window) Empty() bool {
	return !w.Until.After(w.Since)
}

// Contains reports whether t falls inside w.
func (w Window) Contains(t time.Time) bool {
	return t.After(w.Since) && !t.After(w.Until)
}

// WindowStats summarise a session's samples inside one window. Absence of
// data is all zeroes, never an error.
type WindowStats struct {
	SessionID            string
	Window               time.Duration
	AverageFrustration   float64
	MaxFrustration       float64
	CountHighFrustration int
	TotalEvents          int
}

// Aggregate computes WindowStats over samples. It does not filter: callers
// pass the samples that are already inside the window.
func Aggregate(sessionID string, samples []Sample, threshold float64) WindowStats {
	stats := WindowStats{SessionID: sessionID, TotalEvents: len(samples)}
	if len(samples) == 0 {
		return stats
	}

	var sum float64
	stats.MaxFrustration = samples[0].FrustrationScore
	for _, s := range samples {
		sum += s.FrustrationScore
		if s.FrustrationScore > stats.MaxFrustration {
			stats.MaxFrustration = s.FrustrationScore
		}
		if s.FrustrationScore > threshold {
			stats.CountHighFrustration++
		}
	}
	stats.AverageFrustration = sum / float64(len(samples))
	return stats
}
