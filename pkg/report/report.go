package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/octavian202/public-transport-management/pkg/database"
	"github.com/octavian202/public-transport-management/pkg/transit"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type occupancyRow struct {
	Trip       string  `csv:"trip"`
	Route      string  `csv:"route"`
	Timestamp  string  `csv:"timestamp"`
	Count      int     `csv:"count"`
	Capacity   int     `csv:"capacity"`
	Percentage float64 `csv:"percentage"`
	Seated     int     `csv:"seated"`
	Standing   int     `csv:"standing"`
}

type tripRow struct {
	Trip          string `csv:"trip"`
	Route         string `csv:"route"`
	Date          string `csv:"date"`
	DepartureTime string `csv:"departure_time"`
	ArrivalTime   string `csv:"arrival_time"`
	VehicleType   string `csv:"vehicle_type"`
	Capacity      int    `csv:"capacity"`
	Status        string `csv:"status"`
}

// Window is the trip selection filter shared by both reports. A zero Start or
// End leaves that side of the window open; an empty RouteRef selects all routes.
type Window struct {
	RouteRef string
	Start    time.Time
	End      time.Time
}

func (window *Window) tripQuery() bson.M {
	query := bson.M{}
	if window.RouteRef != "" {
		query["routeref"] = window.RouteRef
	}

	departureFilter := bson.M{}
	if !window.Start.IsZero() {
		departureFilter["$gte"] = window.Start
	}
	if !window.End.IsZero() {
		departureFilter["$lte"] = window.End
	}
	if len(departureFilter) > 0 {
		query["departuretime"] = departureFilter
	}

	return query
}

func (window *Window) trips(ctx context.Context) ([]transit.Trip, error) {
	tripsCollection := database.GetCollection("trips")
	opts := options.Find().SetSort(bson.M{"departuretime": 1})
	cursor, err := tripsCollection.Find(ctx, window.tripQuery(), opts)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}

	trips := []transit.Trip{}
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("decode trips: %w", err)
	}

	return trips, nil
}

// WriteOccupancyReport exports every occupancy record for the trips matching
// the window as CSV rows ordered by trip then timestamp.
func WriteOccupancyReport(ctx context.Context, window *Window, outputPath string) error {
	trips, err := window.trips(ctx)
	if err != nil {
		return err
	}

	occupancyCollection := database.GetCollection("occupancy")
	rows := []occupancyRow{}
	for _, trip := range trips {
		opts := options.Find().SetSort(bson.M{"timestamp": 1})
		cursor, err := occupancyCollection.Find(ctx, bson.M{"tripref": trip.PrimaryIdentifier}, opts)
		if err != nil {
			return fmt.Errorf("query occupancy: %w", err)
		}

		records := []transit.OccupancyRecord{}
		if err := cursor.All(ctx, &records); err != nil {
			return fmt.Errorf("decode occupancy: %w", err)
		}

		for _, record := range records {
			rows = append(rows, occupancyRow{
				Trip:       trip.PrimaryIdentifier,
				Route:      trip.RouteRef,
				Timestamp:  record.Timestamp.Format(time.RFC3339),
				Count:      record.Count,
				Capacity:   record.Capacity,
				Percentage: record.Percentage,
				Seated:     record.Seated,
				Standing:   record.Standing,
			})
		}
	}

	if err := writeCSV(outputPath, &rows); err != nil {
		return err
	}

	log.Info().
		Str("output", outputPath).
		Int("rows", len(rows)).
		Msg("Wrote occupancy report")

	return nil
}

// WriteTripsReport exports the trips matching the window as CSV rows, with
// status recomputed at export time.
func WriteTripsReport(ctx context.Context, window *Window, outputPath string) error {
	trips, err := window.trips(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	rows := []tripRow{}
	for _, trip := range trips {
		rows = append(rows, tripRow{
			Trip:          trip.PrimaryIdentifier,
			Route:         trip.RouteRef,
			Date:          trip.Date.Format("2006-01-02"),
			DepartureTime: trip.DepartureTime.Format(time.RFC3339),
			ArrivalTime:   trip.ArrivalTime.Format(time.RFC3339),
			VehicleType:   string(trip.VehicleType),
			Capacity:      trip.Capacity,
			Status:        string(trip.StatusAt(now)),
		})
	}

	if err := writeCSV(outputPath, &rows); err != nil {
		return err
	}

	log.Info().
		Str("output", outputPath).
		Int("rows", len(rows)).
		Msg("Wrote trips report")

	return nil
}

func writeCSV(outputPath string, rows interface{}) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	return nil
}
