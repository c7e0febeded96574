package clock

import "time"

// Clock supplies "now" so the sweep can be run against a fixed day in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in the configured location.
type RealClock struct {
	Location *time.Location
}

func (c RealClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
