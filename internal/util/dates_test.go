package util

import (
	"testing"
	"time"
)

func TestDayWindow(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")

	tests := []struct {
		name      string
		now       time.Time
		daysAhead int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "seven days from midmorning",
			now:       time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC),
			daysAhead: 7,
			wantStart: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 17, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "zero days covers just today",
			now:       time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC),
			daysAhead: 0,
			wantStart: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 10, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "window crosses a month boundary",
			now:       time.Date(2026, 1, 30, 12, 0, 0, 0, time.UTC),
			daysAhead: 3,
			wantStart: time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 2, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "keeps the caller's location",
			now:       time.Date(2026, 3, 10, 1, 0, 0, 0, loc),
			daysAhead: 1,
			wantStart: time.Date(2026, 3, 10, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2026, 3, 11, 23, 59, 59, 999999999, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := DayWindow(tt.now, tt.daysAhead)
			if !start.Equal(tt.wantStart) {
				t.Errorf("DayWindow() start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("DayWindow() end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}
