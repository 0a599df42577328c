package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which account numbers are hidden.
	LayoutCompactWidth = 70

	// LayoutModalWidth is the width of the help overlay.
	LayoutModalWidth = 44
)

// Timing constants.
const (
	// FrameInterval paces the frame tick that advances the quit gesture and
	// the shutdown fade while no keys arrive.
	FrameInterval = 100 * time.Millisecond

	// ShutdownDuration is how long the exit fade runs before the program quits.
	ShutdownDuration = 500 * time.Millisecond

	// FetchTimeout bounds each bank request started from the UI.
	FetchTimeout = 15 * time.Second

	// AccountsRetryBase is the first delay before refetching accounts after a failure.
	AccountsRetryBase = 2 * time.Second

	// maxBackoff caps the account retry delay.
	maxBackoff = 30 * time.Second
)
