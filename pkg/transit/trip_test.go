package transit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTripStatus(t *testing.T) {
	departure := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	arrival := time.Date(2024, 3, 15, 10, 45, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		status TripStatus
	}{
		{name: "before departure", now: departure.Add(-time.Hour), status: TripStatusScheduled},
		{name: "exactly at departure", now: departure, status: TripStatusScheduled},
		{name: "between departure and arrival", now: departure.Add(20 * time.Minute), status: TripStatusActive},
		{name: "exactly at arrival", now: arrival, status: TripStatusActive},
		{name: "after arrival", now: arrival.Add(time.Minute), status: TripStatusCompleted},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.status, CalculateTripStatus(test.now, departure, arrival))
		})
	}
}

func TestTripStatusAt(t *testing.T) {
	trip := &Trip{
		DepartureTime: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2024, 3, 15, 10, 45, 0, 0, time.UTC),
	}

	assert.Equal(t, TripStatusActive, trip.StatusAt(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)))
}
