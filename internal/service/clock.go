package service

import "time"

// Clock reports the wall-clock time. Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local system time
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}
