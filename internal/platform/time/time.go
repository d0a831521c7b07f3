// Package time contains clock and calendar-date helpers
package time

import "time"

// DateLayout renders a calendar day the way the persisted lastDate marker stores it
const DateLayout = "Mon Jan 02 2006"

// Clock is the seam every date-sensitive service reads the wall clock through
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock
type System struct{}

// Now implements Clock
func (System) Now() time.Time { return time.Now() }

// DateKey returns the calendar-day marker for t in t's own location
func DateKey(t time.Time) string { return t.Format(DateLayout) }

// Today returns the calendar-day marker for c.Now(), falling back to the system clock when c is nil
func Today(c Clock) string {
	if c == nil {
		c = System{}
	}
	return DateKey(c.Now())
}
