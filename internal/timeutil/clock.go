package timeutil

import "time"

// Clock abstracts the current time so that validation against "now"
// can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock and reports it in UTC.
type SystemClock struct{}

// Now returns the current UTC instant.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
