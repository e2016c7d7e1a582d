// Package clock is the time source for run durations, replaceable in tests.
package clock

import "time"

var nowFunc = time.Now

func Now() time.Time {
	return nowFunc()
}

// Since is time.Since against the configured clock.
func Since(start time.Time) time.Duration {
	return nowFunc().Sub(start)
}

// SetNowForTest overrides the clock source and returns a restore function.
// Tests using it must not run in parallel.
func SetNowForTest(fn func() time.Time) func() {
	previous := nowFunc
	nowFunc = fn
	return func() {
		nowFunc = previous
	}
}

// Stepping returns a clock function that starts at start and advances by step
// on every call.
func Stepping(start time.Time, step time.Duration) func() time.Time {
	current := start.Add(-step)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}
