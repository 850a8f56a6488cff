package seeder

import (
	"math/rand"
	"testing"
	"time"

	"github.com/octavian202/public-transport-management/pkg/transit"
	"github.com/octavian202/public-transport-management/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBandDaytime(t *testing.T) {
	band := Band{
		Name:           "weekday-morning",
		DayType:        transit.DayTypeWeekday,
		StartTime:      "06:00",
		EndTime:        "11:00",
		HeadwayMinutes: 40,
	}

	stops := []string{"stop-1", "stop-2"}
	validFrom := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	validUntil := validFrom.AddDate(0, 3, 0)

	entries, err := ExpandBand("route-7", stops, band, validFrom, validUntil, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	// A 300 minute window at a 40 minute headway yields 7 departures.
	require.Len(t, entries, 7*len(stops))

	slots := map[string]bool{}
	for _, entry := range entries {
		slots[entry.DepartureSlot] = true
	}

	assert.Len(t, slots, 7)
	assert.True(t, slots["06:00"])
	assert.True(t, slots["10:00"])
	assert.False(t, slots["10:40"], "a departure at 10:40 would overrun the band")

	for _, entry := range entries {
		assert.Equal(t, transit.DayTypeWeekday, entry.DayType)
		assert.Equal(t, "route-7", entry.RouteRef)
		assert.Equal(t, validFrom, entry.ValidFrom)
		assert.Equal(t, validUntil, entry.ValidUntil)
	}
}

func TestExpandBandStopOffsets(t *testing.T) {
	band := Band{
		Name:           "weekday-morning",
		DayType:        transit.DayTypeWeekday,
		StartTime:      "06:00",
		EndTime:        "11:00",
		HeadwayMinutes: 40,
	}

	stops := []string{"stop-1", "stop-2", "stop-3", "stop-4"}

	entries, err := ExpandBand("route-7", stops, band,
		time.Time{}, time.Time{}, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	// Within each slot, stop times advance by 2-5 minutes per hop.
	for slotStart := 0; slotStart < len(entries); slotStart += len(stops) {
		slotMinute, err := util.ParseClock(entries[slotStart].DepartureSlot)
		require.NoError(t, err)

		previousMinute := slotMinute
		for i := 0; i < len(stops); i++ {
			entry := entries[slotStart+i]
			assert.Equal(t, stops[i], entry.StopRef)

			stopMinute, err := util.ParseClock(entry.DepartureTime)
			require.NoError(t, err)

			hop := stopMinute - previousMinute
			assert.GreaterOrEqual(t, hop, 2)
			assert.LessOrEqual(t, hop, 5)

			previousMinute = stopMinute
		}
	}
}

func TestExpandBandAcrossMidnight(t *testing.T) {
	band := Band{
		Name:           "weekend-night",
		DayType:        transit.DayTypeWeekend,
		StartTime:      "22:00",
		EndTime:        "07:00",
		HeadwayMinutes: 140,
	}

	entries, err := ExpandBand("route-7", []string{"stop-1"}, band,
		time.Time{}, time.Time{}, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	// The 540 minute overnight window fits 3 departures at a 140 minute headway.
	require.Len(t, entries, 3)
	assert.Equal(t, "22:00", entries[0].DepartureSlot)
	assert.Equal(t, "00:20", entries[1].DepartureSlot)
	assert.Equal(t, "02:40", entries[2].DepartureSlot)
}

func TestExpandBandInvalid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := ExpandBand("route-7", []string{"stop-1"}, Band{
		Name: "broken", StartTime: "25:00", EndTime: "11:00", HeadwayMinutes: 40,
	}, time.Time{}, time.Time{}, rng)
	assert.Error(t, err)

	_, err = ExpandBand("route-7", []string{"stop-1"}, Band{
		Name: "broken", StartTime: "06:00", EndTime: "11:00", HeadwayMinutes: 0,
	}, time.Time{}, time.Time{}, rng)
	assert.Error(t, err)
}

func TestExpandBandEntryIdentityIsStable(t *testing.T) {
	band := Band{
		Name:           "holiday",
		DayType:        transit.DayTypeHoliday,
		StartTime:      "07:00",
		EndTime:        "22:00",
		HeadwayMinutes: 100,
	}

	first, err := ExpandBand("route-7", []string{"stop-1", "stop-2"}, band,
		time.Time{}, time.Time{}, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	second, err := ExpandBand("route-7", []string{"stop-1", "stop-2"}, band,
		time.Time{}, time.Time{}, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].PrimaryIdentifier, second[i].PrimaryIdentifier)
		assert.Equal(t, first[i].DepartureTime, second[i].DepartureTime)
	}
}
