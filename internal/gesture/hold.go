// Package gesture detects a key held down long enough to count as intent.
//
// Terminals report a held key as a stream of repeated presses, so a hold is
// a run of presses with no gap longer than the slack window.
package gesture

import "time"

const (
	// DefaultThreshold is how long the key must be held.
	DefaultThreshold = time.Second
	// DefaultSlack is the largest gap between repeats that keeps a hold alive.
	// It has to cover the initial key-repeat delay of common terminals.
	DefaultSlack = 600 * time.Millisecond
)

// Hold tracks one hold-to-confirm gesture.
type Hold struct {
	threshold time.Duration
	slack     time.Duration

	holdStart time.Time
	lastKey   time.Time
}

// NewHold returns an idle gesture. Non-positive durations use the defaults.
func NewHold(threshold, slack time.Duration) Hold {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if slack <= 0 {
		slack = DefaultSlack
	}
	return Hold{threshold: threshold, slack: slack}
}

// Press records one observed press of the key at now.
func (h *Hold) Press(now time.Time) {
	if h.holdStart.IsZero() || now.Sub(h.lastKey) > h.slack {
		h.holdStart = now
	}
	h.lastKey = now
}

// Tick advances the gesture. quit is true exactly once, on the first tick at
// which the key has been held for the threshold; the gesture is idle again
// afterwards. progress is elapsed/threshold in [0,1] and only meaningful
// while active.
func (h *Hold) Tick(now time.Time) (quit bool, progress float64, active bool) {
	if h.holdStart.IsZero() {
		return false, 0, false
	}
	if now.Sub(h.lastKey) > h.slack {
		h.Reset()
		return false, 0, false
	}

	elapsed := now.Sub(h.holdStart)
	if elapsed >= h.threshold {
		h.Reset()
		return true, 1, false
	}
	progress = float64(elapsed) / float64(h.threshold)
	if progress < 0 {
		progress = 0
	}
	return false, progress, true
}

// Active reports whether a hold is in progress.
func (h Hold) Active() bool { return !h.holdStart.IsZero() }

// Reset returns the gesture to idle.
func (h *Hold) Reset() {
	h.holdStart = time.Time{}
	h.lastKey = time.Time{}
}
