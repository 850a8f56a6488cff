package transit

import "time"

// Trip is one concrete dated occurrence of a route's journey.
type Trip struct {
	PrimaryIdentifier string

	CreationDateTime     time.Time
	ModificationDateTime time.Time

	DataSource *DataSource

	RouteRef          string
	TimetableEntryRef string

	VehicleType VehicleType
	Capacity    int
	Features    []string

	Date          time.Time
	DepartureTime time.Time
	ArrivalTime   time.Time

	Status TripStatus
}

type TripStatus string

const (
	TripStatusScheduled TripStatus = "Scheduled"
	TripStatusActive    TripStatus = "Active"
	TripStatusCompleted TripStatus = "Completed"
)

// StatusAt derives the trip status from the given instant. Status is a pure
// function of (now, departure, arrival) and is recomputed rather than trusted
// as stored ground truth.
func (trip *Trip) StatusAt(now time.Time) TripStatus {
	return CalculateTripStatus(now, trip.DepartureTime, trip.ArrivalTime)
}

func CalculateTripStatus(now time.Time, departureTime time.Time, arrivalTime time.Time) TripStatus {
	if arrivalTime.Before(now) {
		return TripStatusCompleted
	}

	if departureTime.Before(now) {
		return TripStatusActive
	}

	return TripStatusScheduled
}
