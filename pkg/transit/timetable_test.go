package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimetableEntryDayTypeAccessors(t *testing.T) {
	tests := []struct {
		dayType   DayType
		isWeekday bool
		isWeekend bool
		isHoliday bool
	}{
		{dayType: DayTypeWeekday, isWeekday: true},
		{dayType: DayTypeWeekend, isWeekend: true},
		{dayType: DayTypeHoliday, isHoliday: true},
	}

	for _, test := range tests {
		t.Run(string(test.dayType), func(t *testing.T) {
			entry := &TimetableEntry{DayType: test.dayType}

			// Exactly one family matches.
			assert.Equal(t, test.isWeekday, entry.IsWeekday())
			assert.Equal(t, test.isWeekend, entry.IsWeekend())
			assert.Equal(t, test.isHoliday, entry.IsHoliday())
		})
	}
}
