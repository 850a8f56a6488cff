package transit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdentifiers(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "stop-42", StopIdentifier("42"))
	assert.Equal(t, "route-7", RouteIdentifier("7"))
	assert.Equal(t, "routestop-route-7-stop-42", RouteStopIdentifier("route-7", "stop-42"))
	assert.Equal(t, "timetable-route-7-stop-42-0640-weekday",
		TimetableEntryIdentifier("route-7", "stop-42", "06:40", DayTypeWeekday))
	assert.Equal(t, "trip-route-7-2024-03-15-0640", TripIdentifier("route-7", date, "06:40"))
	assert.Equal(t, "occupancy-trip-route-7-2024-03-15-0640-3",
		OccupancyIdentifier("trip-route-7-2024-03-15-0640", 3))
}

func TestManualOccupancyIdentifier(t *testing.T) {
	tripRef := "trip-route-7-2024-03-15-0640"
	timestamp := time.Date(2024, 3, 15, 6, 45, 12, 0, time.UTC)

	identifier := ManualOccupancyIdentifier(tripRef, timestamp)

	// Manual readings live in their own key space, away from the synthetic
	// sample indices.
	assert.NotEqual(t, OccupancyIdentifier(tripRef, int(timestamp.Unix())), identifier)
	assert.Contains(t, identifier, "-reading-")

	// Two readings inside the same second stay distinct.
	later := ManualOccupancyIdentifier(tripRef, timestamp.Add(time.Millisecond))
	assert.NotEqual(t, identifier, later)
}

func TestIdentifiersAreStable(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	// Re-deriving with the same natural keys must return the same identity,
	// otherwise re-running the seed pipeline would duplicate documents.
	assert.Equal(t,
		TripIdentifier("route-7", date, "06:40"),
		TripIdentifier("route-7", date, "06:40"))
}
