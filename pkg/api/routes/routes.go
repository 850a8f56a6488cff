package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/octavian202/public-transport-management/pkg/database"
	"github.com/octavian202/public-transport-management/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func RoutesRouter(router fiber.Router) {
	router.Get("/", listRoutes)
	router.Post("/", createRoute)
	router.Get("/:identifier", getRoute)
	router.Put("/:identifier", updateRoute)
	router.Delete("/:identifier", deleteRoute)
	router.Put("/:identifier/stops", replaceRouteStops)
	router.Get("/:identifier/occupancy", getRouteOccupancy)
	router.Get("/:identifier/occupancy/hourly", getRouteOccupancyHourly)
	router.Get("/:identifier/occupancy/heatmap", getRouteOccupancyHeatmap)
}

func listRoutes(c *fiber.Ctx) error {
	routesCollection := database.GetCollection("routes")

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := routesCollection.Find(context.Background(), bson.M{}, opts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	routes := []transit.Route{}
	if err := cursor.All(context.Background(), &routes); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(routes)
}

func getRoute(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	routesCollection := database.GetCollection("routes")
	var route *transit.Route
	routesCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&route)

	if route == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Route matching Route Identifier",
		})
	}

	orderedStops, err := routeOrderedStops(identifier)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	now := time.Now()
	tripsCollection := database.GetCollection("trips")
	tripOpts := options.Find().
		SetSort(bson.M{"departuretime": 1}).
		SetLimit(10)
	tripsCursor, err := tripsCollection.Find(context.Background(), bson.M{
		"routeref":      identifier,
		"departuretime": bson.M{"$gte": now},
	}, tripOpts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	upcomingTrips := []transit.Trip{}
	if err := tripsCursor.All(context.Background(), &upcomingTrips); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	for index := range upcomingTrips {
		upcomingTrips[index].Status = upcomingTrips[index].StatusAt(now)
	}

	return c.JSON(fiber.Map{
		"route":         route,
		"stops":         orderedStops,
		"upcomingTrips": upcomingTrips,
	})
}

func createRoute(c *fiber.Ctx) error {
	var route transit.Route
	if err := c.BodyParser(&route); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse Route from request body",
		})
	}

	if route.PrimaryIdentifier == "" || route.Name == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Route requires a PrimaryIdentifier and a Name",
		})
	}

	if route.VehicleType == "" {
		route.VehicleType = transit.ClassifyVehicleType(route.Name)
	}
	if route.Capacity <= 0 {
		minCapacity, _ := route.VehicleType.CapacityRange()
		route.Capacity = minCapacity
	}

	now := time.Now()
	route.CreationDateTime = now
	route.ModificationDateTime = now

	routesCollection := database.GetCollection("routes")
	opts := options.Update().SetUpsert(true)
	_, err := routesCollection.UpdateOne(context.Background(),
		bson.M{"primaryidentifier": route.PrimaryIdentifier}, bson.M{"$set": route}, opts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.SendStatus(fiber.StatusCreated)
	return c.JSON(route)
}

func updateRoute(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	routesCollection := database.GetCollection("routes")
	var existing *transit.Route
	routesCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&existing)

	if existing == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Route matching Route Identifier",
		})
	}

	var route transit.Route
	if err := c.BodyParser(&route); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse Route from request body",
		})
	}

	route.PrimaryIdentifier = identifier
	route.CreationDateTime = existing.CreationDateTime
	route.ModificationDateTime = time.Now()

	_, err := routesCollection.UpdateOne(context.Background(),
		bson.M{"primaryidentifier": identifier}, bson.M{"$set": route})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(route)
}

func deleteRoute(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	routesCollection := database.GetCollection("routes")
	result, err := routesCollection.DeleteOne(context.Background(), bson.M{"primaryidentifier": identifier})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if result.DeletedCount == 0 {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Route matching Route Identifier",
		})
	}

	routeStopsCollection := database.GetCollection("route_stops")
	routeStopsCollection.DeleteMany(context.Background(), bson.M{"routeref": identifier})

	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}

// replaceRouteStops swaps the route's entire stop sequence for the one in the
// request body. The old associations are deleted and fresh ones inserted with
// StopOrder renumbered from 1, matching how the seeder builds them.
func replaceRouteStops(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	routesCollection := database.GetCollection("routes")
	var route *transit.Route
	routesCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&route)

	if route == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Route matching Route Identifier",
		})
	}

	var stopRefs []string
	if err := c.BodyParser(&stopRefs); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body must be an array of Stop identifiers",
		})
	}

	stopsCollection := database.GetCollection("stops")
	seen := map[string]bool{}
	for _, stopRef := range stopRefs {
		if seen[stopRef] {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Stop identifiers must not repeat within a route",
			})
		}
		seen[stopRef] = true

		var stop *transit.Stop
		stopsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": stopRef}).Decode(&stop)
		if stop == nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Could not find Stop matching Stop Identifier " + stopRef,
			})
		}
	}

	routeStopsCollection := database.GetCollection("route_stops")
	if _, err := routeStopsCollection.DeleteMany(context.Background(), bson.M{"routeref": identifier}); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if len(stopRefs) > 0 {
		operations := []mongo.WriteModel{}
		for index, stopRef := range stopRefs {
			operations = append(operations, mongo.NewInsertOneModel().SetDocument(transit.RouteStop{
				PrimaryIdentifier: transit.RouteStopIdentifier(identifier, stopRef),
				RouteRef:          identifier,
				StopRef:           stopRef,
				StopOrder:         index + 1,
			}))
		}

		if _, err := routeStopsCollection.BulkWrite(context.Background(), operations); err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	orderedStops, err := routeOrderedStops(identifier)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(orderedStops)
}

func getRouteOccupancy(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	trips, recordsByTrip, err := routeOccupancyWindow(c, identifier)
	if err != nil {
		return err
	}
	if trips == nil {
		return nil // response already written
	}

	series := []fiber.Map{}
	for _, trip := range trips {
		records := recordsByTrip[trip.PrimaryIdentifier]
		if len(records) == 0 {
			continue
		}

		series = append(series, fiber.Map{
			"trip":    trip.PrimaryIdentifier,
			"records": records,
		})
	}

	return c.JSON(series)
}

func getRouteOccupancyHourly(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	trips, recordsByTrip, err := routeOccupancyWindow(c, identifier)
	if err != nil {
		return err
	}
	if trips == nil {
		return nil
	}

	allRecords := []transit.OccupancyRecord{}
	for _, trip := range trips {
		allRecords = append(allRecords, recordsByTrip[trip.PrimaryIdentifier]...)
	}

	return c.JSON(transit.AverageOccupancyByHour(allRecords))
}

func getRouteOccupancyHeatmap(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	trips, recordsByTrip, err := routeOccupancyWindow(c, identifier)
	if err != nil {
		return err
	}
	if trips == nil {
		return nil
	}

	orderedStops, err := routeOrderedStops(identifier)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	stopNames := []string{}
	for _, stop := range orderedStops {
		stopNames = append(stopNames, stop.Name)
	}

	points := []transit.HeatmapPoint{}
	for index := range trips {
		points = append(points,
			transit.HeatmapPoints(&trips[index], recordsByTrip[trips[index].PrimaryIdentifier], stopNames)...)
	}

	return c.JSON(points)
}

// routeOccupancyWindow resolves the route's trips and their occupancy records
// within the start/end query window (defaulting to the past seven days).
// A nil trips slice means the error response has already been sent.
func routeOccupancyWindow(c *fiber.Ctx, identifier string) ([]transit.Trip, map[string][]transit.OccupancyRecord, error) {
	routesCollection := database.GetCollection("routes")
	var route *transit.Route
	routesCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&route)

	if route == nil {
		c.SendStatus(fiber.StatusNotFound)
		return nil, nil, c.JSON(fiber.Map{
			"error": "Could not find Route matching Route Identifier",
		})
	}

	end := time.Now()
	start := end.AddDate(0, 0, -7)

	if startQuery := c.Query("start"); startQuery != "" {
		parsed, err := time.Parse(time.RFC3339, startQuery)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return nil, nil, c.JSON(fiber.Map{
				"error": "Parameter start should be an RFC3339 datetime",
			})
		}
		start = parsed
	}
	if endQuery := c.Query("end"); endQuery != "" {
		parsed, err := time.Parse(time.RFC3339, endQuery)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return nil, nil, c.JSON(fiber.Map{
				"error": "Parameter end should be an RFC3339 datetime",
			})
		}
		end = parsed
	}

	tripsCollection := database.GetCollection("trips")
	tripOpts := options.Find().SetSort(bson.M{"departuretime": 1})
	tripsCursor, err := tripsCollection.Find(context.Background(), bson.M{
		"routeref":      identifier,
		"departuretime": bson.M{"$gte": start, "$lte": end},
	}, tripOpts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return nil, nil, c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	trips := []transit.Trip{}
	if err := tripsCursor.All(context.Background(), &trips); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return nil, nil, c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	recordsByTrip := map[string][]transit.OccupancyRecord{}
	if len(trips) == 0 {
		return trips, recordsByTrip, nil
	}

	tripRefs := []string{}
	for _, trip := range trips {
		tripRefs = append(tripRefs, trip.PrimaryIdentifier)
	}

	occupancyCollection := database.GetCollection("occupancy")
	occupancyOpts := options.Find().SetSort(bson.M{"timestamp": 1})
	occupancyCursor, err := occupancyCollection.Find(context.Background(),
		bson.M{"tripref": bson.M{"$in": tripRefs}}, occupancyOpts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return nil, nil, c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	records := []transit.OccupancyRecord{}
	if err := occupancyCursor.All(context.Background(), &records); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return nil, nil, c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	for _, record := range records {
		recordsByTrip[record.TripRef] = append(recordsByTrip[record.TripRef], record)
	}

	return trips, recordsByTrip, nil
}

func routeOrderedStops(routeRef string) ([]transit.Stop, error) {
	routeStopsCollection := database.GetCollection("route_stops")
	opts := options.Find().SetSort(bson.M{"stoporder": 1})
	cursor, err := routeStopsCollection.Find(context.Background(), bson.M{"routeref": routeRef}, opts)
	if err != nil {
		return nil, err
	}

	routeStops := []transit.RouteStop{}
	if err := cursor.All(context.Background(), &routeStops); err != nil {
		return nil, err
	}

	stopsCollection := database.GetCollection("stops")
	stops := []transit.Stop{}
	for _, routeStop := range routeStops {
		var stop *transit.Stop
		stopsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": routeStop.StopRef}).Decode(&stop)
		if stop != nil {
			stops = append(stops, *stop)
		}
	}

	return stops, nil
}
