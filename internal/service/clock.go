package service

import (
	"time"

	"food-donation-be/pkg/lifecycle"
)

// Clock supplies the current instant and the zone whose calendar day counts
// as "today" for expiry.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// FixedClock always reports t. Tests use it to pin "today".
func FixedClock(t time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: func() time.Time { return t }, Location: loc}
}

func (c Clock) Today() time.Time {
	return lifecycle.Today(c.Now(), c.Location)
}
