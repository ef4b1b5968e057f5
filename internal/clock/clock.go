// Package clock provides an abstraction for time operations to improve testability.
// Report writers and the pipeline take a Clock so timestamps can be pinned in tests.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock that always reports the same instant.
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return f.At
}

var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
)
