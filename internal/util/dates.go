package util

import "time"

// DayWindow returns the inclusive [start, end] range covering now's calendar
// day through the end of the day daysAhead later, in now's location.
func DayWindow(now time.Time, daysAhead int) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, daysAhead+1).Add(-time.Nanosecond)
	return start, end
}
