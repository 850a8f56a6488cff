package transit

import "time"

// TimetableEntry is a recurring scheduled departure template, keyed by
// (route, stop, departure clock value, day type). It is distinct from a Trip,
// which is a single dated occurrence.
type TimetableEntry struct {
	PrimaryIdentifier string

	CreationDateTime     time.Time
	ModificationDateTime time.Time

	DataSource *DataSource

	RouteRef string
	StopRef  string

	// DepartureSlot is the clock value of the departure this entry belongs
	// to. Every stop served by one departure shares the same slot, which is
	// what trip materialisation groups on.
	DepartureSlot string

	// DepartureTime is the arrival-at-stop clock value: the slot time plus
	// the cumulative hop offsets up to this stop. Both fields are zero-padded
	// 24 hour "HH:MM" strings, lexicographically comparable except across the
	// midnight wrap.
	DepartureTime string

	DayType DayType

	ValidFrom  time.Time
	ValidUntil time.Time
}

func (entry *TimetableEntry) IsWeekday() bool {
	return entry.DayType == DayTypeWeekday
}

func (entry *TimetableEntry) IsWeekend() bool {
	return entry.DayType == DayTypeWeekend
}

func (entry *TimetableEntry) IsHoliday() bool {
	return entry.DayType == DayTypeHoliday
}
