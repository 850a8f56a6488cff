package transit

import "time"

// DayType classifies a calendar date into exactly one timetable band family.
type DayType string

const (
	DayTypeWeekday DayType = "Weekday"
	DayTypeWeekend DayType = "Weekend"
	DayTypeHoliday DayType = "Holiday"
)

// publicHolidays lists fixed-date public holidays as (month, day) pairs.
var publicHolidays = [][2]int{
	{1, 1},   // New Year's Day
	{12, 25}, // Christmas Day
}

func IsPublicHoliday(date time.Time) bool {
	for _, holiday := range publicHolidays {
		if int(date.Month()) == holiday[0] && date.Day() == holiday[1] {
			return true
		}
	}

	return false
}

// ClassifyDate maps a calendar date to its day type. Holidays take priority
// over weekends, weekends over weekdays, so a date always matches exactly one.
func ClassifyDate(date time.Time) DayType {
	if IsPublicHoliday(date) {
		return DayTypeHoliday
	}

	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return DayTypeWeekend
	}

	return DayTypeWeekday
}
