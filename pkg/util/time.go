package util

import (
	"fmt"
	"time"
)

const YearMonthDayFormat = "2006-01-02"

// AddClockToDate combines a calendar date with a minute-of-day clock value.
func AddClockToDate(date time.Time, minuteOfDay int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, date.Location())
}

// TruncateToDay drops the clock component of a timestamp.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseClock converts a zero-padded 24 hour "HH:MM" string into a minute-of-day value.
func ParseClock(clock string) (int, error) {
	var hour, minute int
	_, err := fmt.Sscanf(clock, "%02d:%02d", &hour, &minute)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", clock)
	}

	return hour*60 + minute, nil
}

// FormatClock renders a minute-of-day value as a zero-padded "HH:MM" string, wrapping modulo 24 hours.
func FormatClock(minuteOfDay int) string {
	minuteOfDay = ((minuteOfDay % 1440) + 1440) % 1440

	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}
