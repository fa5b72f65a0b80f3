package wrcache

import "time"

// Clock abstracts time so TTL expiry can be tested without sleeping.
type Clock interface {
	Now() time.Time
}

// RealClock delegates to the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
