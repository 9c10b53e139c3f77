package engine

import "time"

// Clock supplies wall time. The engine reads it to decide what "today" is;
// the store reads its own clock for timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
