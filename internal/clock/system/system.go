// Package system provides the wall clock used by the scheduler.
package system

import "time"

// Clock implements menu.Clock in a fixed location. Trigger expressions are
// evaluated in that location, so "Sunday 08:00" means local Sunday morning.
type Clock struct {
	loc *time.Location
}

// New creates a Clock reporting times in loc. A nil loc means time.Local.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc}
}

// Now returns the current time in the clock's location.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location reports the clock's location.
func (c *Clock) Location() *time.Location {
	return c.loc
}
