package transit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDate(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		dayType DayType
	}{
		{name: "monday", date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), dayType: DayTypeWeekday},
		{name: "friday", date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), dayType: DayTypeWeekday},
		{name: "saturday", date: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), dayType: DayTypeWeekend},
		{name: "sunday", date: time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), dayType: DayTypeWeekend},
		{name: "christmas on a weekday", date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), dayType: DayTypeHoliday},
		// 1 Jan 2022 is a Saturday, holiday classification wins.
		{name: "new year on a weekend", date: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), dayType: DayTypeHoliday},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.dayType, ClassifyDate(test.date))
		})
	}
}

func TestIsPublicHoliday(t *testing.T) {
	assert.True(t, IsPublicHoliday(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsPublicHoliday(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsPublicHoliday(time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)))
}
