package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/octavian202/public-transport-management/pkg/database"
	"github.com/octavian202/public-transport-management/pkg/transit"
	"github.com/octavian202/public-transport-management/pkg/tranzy"
	"github.com/octavian202/public-transport-management/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var stopAccessibility = []string{
	"Wheelchair accessible",
	"Visual guide markings",
	"Audio announcements",
	"Tactile paving",
	"Level boarding",
	"Lowered platform",
	"Ramp available",
}

// Seeder runs the full synthesis pipeline: fetch upstream records, persist
// stops and routes, link route stops, expand the weekly calendar into
// timetable entries, materialise dated trips and synthesise their occupancy
// series. Stages run strictly in sequence; writes within a stage may fan out.
type Seeder struct {
	Client  *tranzy.Client
	Profile Profile

	// Now and Rand are injected so a run is reproducible from a fixed seed
	// and instant.
	Now  func() time.Time
	Rand *rand.Rand

	// Days is the length of the trip generation window starting today.
	Days int

	// RouteLimit caps how many upstream routes are imported (0 = no cap).
	RouteLimit int

	// FetchShapes controls whether the rate limited shapes endpoint is hit.
	FetchShapes bool

	datasource *transit.DataSource
}

func (seeder *Seeder) Run(ctx context.Context) error {
	seeder.datasource = &transit.DataSource{
		OriginalFormat: "tranzy-gtfs",
		Provider:       "Tranzy",
		Dataset:        "opendata",
		Identifier:     fmt.Sprint(seeder.Now().Unix()),
	}

	log.Info().Msg("Fetching upstream records")

	stopRecords := seeder.Client.Stops(ctx)
	routeRecords := seeder.Client.Routes(ctx)
	if seeder.RouteLimit > 0 && len(routeRecords) > seeder.RouteLimit {
		routeRecords = routeRecords[:seeder.RouteLimit]
	}

	selectedRoutes := map[int]bool{}
	for _, route := range routeRecords {
		selectedRoutes[route.RouteID] = true
	}

	tripRecords := []tranzy.TripRecord{}
	for _, trip := range seeder.Client.Trips(ctx) {
		if selectedRoutes[trip.RouteID] {
			tripRecords = append(tripRecords, trip)
		}
	}

	stopTimeRecords := seeder.Client.StopTimes(ctx)

	if seeder.FetchShapes {
		shapes := seeder.Client.Shapes(ctx, tripRecords)
		log.Info().Int("shapes", len(shapes)).Msg("Fetched trip shapes")
	}

	log.Info().
		Int("stops", len(stopRecords)).
		Int("routes", len(routeRecords)).
		Int("trips", len(tripRecords)).
		Int("stoptimes", len(stopTimeRecords)).
		Msg("Upstream fetch complete")

	if err := seeder.importStops(ctx, stopRecords); err != nil {
		return fmt.Errorf("import stops: %w", err)
	}

	routes, err := seeder.importRoutes(ctx, routeRecords)
	if err != nil {
		return fmt.Errorf("import routes: %w", err)
	}

	orderedStops := OrderStopsByRoute(tripRecords, stopTimeRecords)

	if err := seeder.replaceRouteStops(ctx, orderedStops); err != nil {
		return fmt.Errorf("link route stops: %w", err)
	}

	if err := seeder.generateTimetable(orderedStops); err != nil {
		return fmt.Errorf("generate timetable: %w", err)
	}

	trips, err := seeder.materializeTrips(ctx, routes)
	if err != nil {
		return fmt.Errorf("materialize trips: %w", err)
	}

	if err := seeder.generateOccupancy(trips); err != nil {
		return fmt.Errorf("generate occupancy: %w", err)
	}

	log.Info().Msg("Seed run complete")

	return nil
}

// importStops upserts every fetched stop. Stops share no ordering dependency
// so writes fan out through a bounded worker pool.
func (seeder *Seeder) importStops(ctx context.Context, records []tranzy.StopRecord) error {
	log.Info().Int("length", len(records)).Msg("Starting Stops")

	now := seeder.Now()
	stopsCollection := database.GetCollection("stops")

	// Accessibility subsets are drawn up front so the worker pool does not
	// race on the seeded random source.
	accessibility := make([][]string, len(records))
	for i := range records {
		accessibility[i] = randomSubset(stopAccessibility, 3, seeder.Rand)
	}

	writePool := pool.New().WithMaxGoroutines(8).WithErrors()

	for i, record := range records {
		stop := &transit.Stop{
			PrimaryIdentifier: transit.StopIdentifier(strconv.Itoa(record.StopID)),

			CreationDateTime:     now,
			ModificationDateTime: now,

			DataSource: seeder.datasource,

			Name: record.StopName,
			Location: &transit.Location{
				Type:        "Point",
				Coordinates: []float64{record.StopLon, record.StopLat},
			},

			Accessibility: accessibility[i],
		}

		writePool.Go(func() error {
			opts := options.Update().SetUpsert(true)
			_, err := stopsCollection.UpdateOne(ctx,
				bson.M{"primaryidentifier": stop.PrimaryIdentifier}, bson.M{"$set": stop}, opts)
			if err != nil {
				log.Error().Err(err).Str("stop", stop.PrimaryIdentifier).Msg("Failed to upsert stop")
			}

			return err
		})
	}

	err := writePool.Wait()

	log.Info().Msg("Finished Stops")

	return err
}

func (seeder *Seeder) importRoutes(ctx context.Context, records []tranzy.RouteRecord) (map[string]*transit.Route, error) {
	log.Info().Int("length", len(records)).Msg("Starting Routes")

	now := seeder.Now()
	routesCollection := database.GetCollection("routes")

	routes := map[string]*transit.Route{}
	for _, record := range records {
		name := fmt.Sprintf("%s - %s", record.RouteShortName, record.RouteLongName)
		vehicleType := transit.ClassifyVehicleType(name)
		minCapacity, maxCapacity := vehicleType.CapacityRange()

		route := &transit.Route{
			PrimaryIdentifier: transit.RouteIdentifier(strconv.Itoa(record.RouteID)),

			CreationDateTime:     now,
			ModificationDateTime: now,

			DataSource: seeder.datasource,

			Name:           name,
			Description:    record.RouteDesc,
			OperatingHours: operatingHours(record.RouteType),

			VehicleType: vehicleType,
			Capacity:    minCapacity + seeder.Rand.Intn(maxCapacity-minCapacity+1),
		}

		routes[route.PrimaryIdentifier] = route
	}

	writePool := pool.New().WithMaxGoroutines(8).WithErrors()

	for _, route := range routes {
		writePool.Go(func() error {
			opts := options.Update().SetUpsert(true)
			_, err := routesCollection.UpdateOne(ctx,
				bson.M{"primaryidentifier": route.PrimaryIdentifier}, bson.M{"$set": route}, opts)
			if err != nil {
				log.Error().Err(err).Str("route", route.PrimaryIdentifier).Msg("Failed to upsert route")
			}

			return err
		})
	}

	err := writePool.Wait()

	log.Info().Msg("Finished Routes")

	return routes, err
}

// replaceRouteStops rebuilds each route's stop associations with the
// delete-all-then-recreate discipline, so stop orders are always a clean
// strictly increasing sequence and never renumbered in place.
func (seeder *Seeder) replaceRouteStops(ctx context.Context, orderedStops map[string][]string) error {
	log.Info().Int("routes", len(orderedStops)).Msg("Starting RouteStops")

	routeStopsCollection := database.GetCollection("route_stops")

	for routeRef, stopRefs := range orderedStops {
		_, err := routeStopsCollection.DeleteMany(ctx, bson.M{"routeref": routeRef})
		if err != nil {
			return err
		}

		writeModels := make([]mongo.WriteModel, 0, len(stopRefs))
		for order, stopRef := range stopRefs {
			routeStop := &transit.RouteStop{
				PrimaryIdentifier: transit.RouteStopIdentifier(routeRef, stopRef),

				RouteRef:  routeRef,
				StopRef:   stopRef,
				StopOrder: order + 1,
			}

			writeModels = append(writeModels, mongo.NewInsertOneModel().SetDocument(routeStop))
		}

		if len(writeModels) == 0 {
			continue
		}

		_, err = routeStopsCollection.BulkWrite(ctx, writeModels, &options.BulkWriteOptions{})
		if err != nil {
			log.Error().Err(err).Str("route", routeRef).Msg("Failed to write route stops")
			return err
		}
	}

	log.Info().Msg("Finished RouteStops")

	return nil
}

// generateTimetable expands every band of the weekly profile for every route
// into timetable entries. Entries are re-derived on each run; rows from
// previous runs are cleaned up afterwards by datasource identifier.
func (seeder *Seeder) generateTimetable(orderedStops map[string][]string) error {
	log.Info().Int("routes", len(orderedStops)).Int("bands", len(seeder.Profile.Bands)).Msg("Starting Timetable")

	validFrom := util.TruncateToDay(seeder.Now())
	validUntil := validFrom.AddDate(0, 3, 0)

	entriesQueue := NewBatchWriteQueue("timetable_entries", 1*time.Second, 5*time.Second, 500)
	entriesQueue.Process()

	routeRefs := make([]string, 0, len(orderedStops))
	for routeRef := range orderedStops {
		routeRefs = append(routeRefs, routeRef)
	}
	sort.Strings(routeRefs)

	for _, routeRef := range routeRefs {
		stopRefs := orderedStops[routeRef]

		for _, band := range seeder.Profile.Bands {
			entries, err := ExpandBand(routeRef, stopRefs, band, validFrom, validUntil, seeder.Rand)
			if err != nil {
				return err
			}

			for i := range entries {
				entries[i].DataSource = seeder.datasource

				bsonRep, _ := bson.Marshal(bson.M{"$set": entries[i]})
				updateModel := mongo.NewUpdateOneModel()
				updateModel.SetFilter(bson.M{"primaryidentifier": entries[i].PrimaryIdentifier})
				updateModel.SetUpdate(bsonRep)
				updateModel.SetUpsert(true)

				entriesQueue.Add(updateModel)
			}
		}
	}

	if err := entriesQueue.Wait(); err != nil {
		return err
	}

	seeder.cleanupOldRecords("timetable_entries")

	log.Info().Msg("Finished Timetable")

	return nil
}

// materializeTrips walks the generation window a day at a time, reads back
// the timetable entries matching each day's classification and upserts the
// resulting trips. Trip identity derives from (route, date, departure slot)
// so re-running a window never duplicates trips.
func (seeder *Seeder) materializeTrips(ctx context.Context, routes map[string]*transit.Route) ([]transit.Trip, error) {
	now := seeder.Now()
	startDate := util.TruncateToDay(now)

	log.Info().Int("days", seeder.Days).Msg("Starting Trips")

	stopOrders, err := seeder.loadStopOrders(ctx)
	if err != nil {
		return nil, err
	}

	tripsCollection := database.GetCollection("trips")
	entriesCollection := database.GetCollection("timetable_entries")

	var allTrips []transit.Trip

	for day := 0; day <= seeder.Days; day++ {
		date := startDate.AddDate(0, 0, day)
		dayType := transit.ClassifyDate(date)

		cursor, err := entriesCollection.Find(ctx, bson.M{"daytype": dayType},
			options.Find().SetSort(bson.D{{Key: "routeref", Value: 1}, {Key: "departureslot", Value: 1}, {Key: "departuretime", Value: 1}}))
		if err != nil {
			return nil, err
		}

		var entries []transit.TimetableEntry
		if err := cursor.All(ctx, &entries); err != nil {
			return nil, err
		}

		trips := BuildTripsForDate(date, now, entries, stopOrders, routes, seeder.Rand)

		writeModels := make([]mongo.WriteModel, 0, len(trips))
		for i := range trips {
			trips[i].DataSource = seeder.datasource

			bsonRep, _ := bson.Marshal(bson.M{"$set": trips[i]})
			updateModel := mongo.NewUpdateOneModel()
			updateModel.SetFilter(bson.M{"primaryidentifier": trips[i].PrimaryIdentifier})
			updateModel.SetUpdate(bsonRep)
			updateModel.SetUpsert(true)

			writeModels = append(writeModels, updateModel)
		}

		if len(writeModels) > 0 {
			_, err = tripsCollection.BulkWrite(ctx, writeModels, &options.BulkWriteOptions{})
			if err != nil {
				log.Error().Err(err).Str("date", date.Format(util.YearMonthDayFormat)).Msg("Failed to write trips")
				return nil, err
			}
		}

		log.Info().Str("date", date.Format(util.YearMonthDayFormat)).Str("daytype", string(dayType)).Int("trips", len(trips)).Msg("Materialised day")

		allTrips = append(allTrips, trips...)
	}

	log.Info().Int("length", len(allTrips)).Msg("Finished Trips")

	return allTrips, nil
}

func (seeder *Seeder) loadStopOrders(ctx context.Context) (map[string]map[string]int, error) {
	routeStopsCollection := database.GetCollection("route_stops")

	cursor, err := routeStopsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var routeStops []transit.RouteStop
	if err := cursor.All(ctx, &routeStops); err != nil {
		return nil, err
	}

	stopOrders := map[string]map[string]int{}
	for _, routeStop := range routeStops {
		if stopOrders[routeStop.RouteRef] == nil {
			stopOrders[routeStop.RouteRef] = map[string]int{}
		}
		stopOrders[routeStop.RouteRef][routeStop.StopRef] = routeStop.StopOrder
	}

	return stopOrders, nil
}

// generateOccupancy writes the synthetic occupancy series for every
// materialised trip. The series is append-only: samples are never revised
// once written.
func (seeder *Seeder) generateOccupancy(trips []transit.Trip) error {
	log.Info().Int("trips", len(trips)).Msg("Starting Occupancy")

	occupancyQueue := NewBatchWriteQueue("occupancy", 1*time.Second, 5*time.Second, 500)
	occupancyQueue.Process()

	for i := range trips {
		records := SynthesizeOccupancy(&trips[i], seeder.Rand)

		for j := range records {
			records[j].DataSource = seeder.datasource

			bsonRep, _ := bson.Marshal(bson.M{"$set": records[j]})
			updateModel := mongo.NewUpdateOneModel()
			updateModel.SetFilter(bson.M{"primaryidentifier": records[j].PrimaryIdentifier})
			updateModel.SetUpdate(bsonRep)
			updateModel.SetUpsert(true)

			occupancyQueue.Add(updateModel)
		}
	}

	if err := occupancyQueue.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Finished Occupancy")

	return nil
}

// cleanupOldRecords removes rows left behind by previous seed runs of the
// same dataset, identified by a different datasource identifier.
func (seeder *Seeder) cleanupOldRecords(collectionName string) {
	collection := database.GetCollection(collectionName)

	query := bson.M{
		"$and": bson.A{
			bson.M{"datasource.originalformat": seeder.datasource.OriginalFormat},
			bson.M{"datasource.provider": seeder.datasource.Provider},
			bson.M{"datasource.dataset": seeder.datasource.Dataset},
			bson.M{"datasource.identifier": bson.M{
				"$ne": seeder.datasource.Identifier,
			}},
		},
	}

	result, err := collection.DeleteMany(context.Background(), query)
	if err != nil {
		log.Error().Err(err).Str("collection", collectionName).Msg("Failed to cleanup old records")
		return
	}

	if result.DeletedCount > 0 {
		log.Info().Str("collection", collectionName).Int64("deleted", result.DeletedCount).Msg("Cleaned up records from previous runs")
	}
}

func operatingHours(routeType int) string {
	switch routeType {
	case 0, 1:
		return "Mon-Fri: 05:30-00:30, Sat-Sun: 06:00-00:00"
	case 3:
		return "Mon-Fri: 06:00-23:00, Sat-Sun: 07:00-22:00"
	case 11:
		return "Mon-Fri: 06:00-22:30, Sat-Sun: 07:00-22:00"
	default:
		return "Mon-Sun: 06:00-22:00"
	}
}
