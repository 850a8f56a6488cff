package transit

import (
	"math"
	"time"
)

// OccupancyRecord is a point-in-time passenger count sample for a trip.
// Records for one trip form an append-only series ordered by timestamp.
// Percentage is always stored on the 0-100 scale.
type OccupancyRecord struct {
	PrimaryIdentifier string

	CreationDateTime time.Time

	DataSource *DataSource

	TripRef   string
	Timestamp time.Time

	Count      int
	Percentage float64
	Seated     int
	Standing   int
	Capacity   int
}

type HourlyOccupancy struct {
	Hour             int
	AverageOccupancy float64
}

// AverageOccupancyByHour buckets occupancy percentages by hour of day and
// averages each bucket. Hours with no samples report zero.
func AverageOccupancyByHour(records []OccupancyRecord) []HourlyOccupancy {
	var sums [24]float64
	var counts [24]int

	for _, record := range records {
		hour := record.Timestamp.Hour()
		sums[hour] += record.Percentage
		counts[hour]++
	}

	result := make([]HourlyOccupancy, 24)
	for hour := 0; hour < 24; hour++ {
		average := 0.0
		if counts[hour] > 0 {
			average = math.Round(sums[hour]/float64(counts[hour])*100) / 100
		}

		result[hour] = HourlyOccupancy{
			Hour:             hour,
			AverageOccupancy: average,
		}
	}

	return result
}

type HeatmapPoint struct {
	Time      time.Time
	StopName  string
	Occupancy float64
}

// HeatmapPoints projects a trip's occupancy series onto its ordered stop
// names by normalised trip progress, for the route heatmap view.
func HeatmapPoints(trip *Trip, records []OccupancyRecord, stopNames []string) []HeatmapPoint {
	if len(stopNames) == 0 {
		return nil
	}

	tripSpan := trip.ArrivalTime.Sub(trip.DepartureTime)
	if tripSpan <= 0 {
		return nil
	}

	points := make([]HeatmapPoint, 0, len(records))
	for _, record := range records {
		progress := float64(record.Timestamp.Sub(trip.DepartureTime)) / float64(tripSpan)

		stopIndex := int(progress * float64(len(stopNames)))
		if stopIndex >= len(stopNames) {
			stopIndex = len(stopNames) - 1
		}
		if stopIndex < 0 {
			stopIndex = 0
		}

		points = append(points, HeatmapPoint{
			Time:      record.Timestamp,
			StopName:  stopNames[stopIndex],
			Occupancy: record.Percentage,
		})
	}

	return points
}
