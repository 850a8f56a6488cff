package seeder

import (
	"math"
	"math/rand"
	"time"

	"github.com/octavian202/public-transport-management/pkg/transit"
)

var rushHours = map[int]bool{
	7: true, 8: true, 9: true,
	16: true, 17: true, 18: true,
}

// baseOccupancy picks the load baseline for a trip from the four
// rush-hour/day-type buckets.
func baseOccupancy(departureHour int, isWeekend bool) float64 {
	rush := rushHours[departureHour]

	switch {
	case rush && !isWeekend:
		return 0.7
	case !rush && !isWeekend:
		return 0.4
	case rush && isWeekend:
		return 0.5
	default:
		return 0.3
	}
}

// SynthesizeOccupancy produces the full occupancy time series for one trip:
// samples evenly spaced from departure to arrival, following a triangular
// load curve (ramp up over the first 30% of the journey, plateau, ramp down
// over the last 30%) around the trip's base occupancy, with bounded jitter.
// The series is append-only and written exactly once per trip.
func SynthesizeOccupancy(trip *transit.Trip, rng *rand.Rand) []transit.OccupancyRecord {
	departureHour := trip.DepartureTime.Hour()
	// Baselines follow the Sat/Sun rhythm only; a public holiday midweek
	// still carries weekday-shaped demand.
	weekday := trip.Date.Weekday()
	base := baseOccupancy(departureHour, weekday == time.Saturday || weekday == time.Sunday)

	duration := trip.ArrivalTime.Sub(trip.DepartureTime)
	durationMinutes := duration.Minutes()

	sampleCount := int(durationMinutes / 10)
	if sampleCount < 2 {
		sampleCount = 2
	}

	records := make([]transit.OccupancyRecord, 0, sampleCount)

	for i := 0; i < sampleCount; i++ {
		progress := float64(i) / float64(sampleCount-1)

		var factor float64
		switch {
		case progress < 0.3:
			// Ramp up from 30% of base towards the full baseline.
			factor = base * (progress/0.3*0.7 + 0.3)
		case progress < 0.7:
			// Plateau with a little jitter either side of the baseline.
			factor = base * (0.9 + rng.Float64()*0.2)
		default:
			// Ramp down towards 30% of base as the trip empties out.
			factor = base * (1 - (progress-0.7)/0.3*0.7)
		}

		factor *= 0.9 + rng.Float64()*0.2
		factor = math.Max(0, math.Min(1, factor))

		timestamp := trip.DepartureTime.Add(time.Duration(progress * float64(duration)))

		count := int(float64(trip.Capacity) * factor)
		seated := int(float64(trip.Capacity) * 0.6)
		if count < seated {
			seated = count
		}

		records = append(records, transit.OccupancyRecord{
			PrimaryIdentifier: transit.OccupancyIdentifier(trip.PrimaryIdentifier, i),

			CreationDateTime: timestamp,

			TripRef:   trip.PrimaryIdentifier,
			Timestamp: timestamp,

			Count:      count,
			Percentage: math.Round(factor*10000) / 100,
			Seated:     seated,
			Standing:   count - seated,
			Capacity:   trip.Capacity,
		})
	}

	return records
}
