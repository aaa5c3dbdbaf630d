package services

import "time"

type clock struct {
	now func() time.Time
}

func systemClock() clock {
	return clock{now: time.Now}
}

// SetClock replaces the time source. Tests use it to pin dates.
func (c *clock) SetClock(now func() time.Time) {
	c.now = now
}
