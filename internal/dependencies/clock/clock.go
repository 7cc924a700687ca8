package clock

import "time"

// Precision is the resolution timestamps are persisted at
const Precision = time.Millisecond

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current UTC time at store precision, so a value read back
// from any store equals the value written
func (c *RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(Precision)
}
