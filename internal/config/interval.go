package config

import "time"

// Interval bounds in milliseconds. Steps move the interval by IntervalStepMS
// and are clamped to [MinIntervalMS, MaxIntervalMS].
const (
	MinIntervalMS     = 250
	MaxIntervalMS     = 10000
	IntervalStepMS    = 500
	DefaultIntervalMS = 1000
)

// IntervalPresets are the quick-pick intervals bound to the number keys.
var IntervalPresets = []time.Duration{
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
}

// ClampInterval bounds d to the allowed interval range.
func ClampInterval(d time.Duration) time.Duration {
	lo := time.Duration(MinIntervalMS) * time.Millisecond
	hi := time.Duration(MaxIntervalMS) * time.Millisecond
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

// StepInterval moves d by steps increments of IntervalStepMS (negative
// steps shorten it) and clamps the result.
func StepInterval(d time.Duration, steps int) time.Duration {
	return ClampInterval(d + time.Duration(steps*IntervalStepMS)*time.Millisecond)
}
