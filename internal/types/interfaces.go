package types

import "time"

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// FixedClock is a Clock pinned to a single instant.
type FixedClock struct {
	T time.Time
}

// Now returns the pinned time.
func (c FixedClock) Now() time.Time { return c.T }
