package domain

import "time"

// Clock supplies the wall-clock time used for default event timestamps,
// audit entries and retention cutoffs.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
