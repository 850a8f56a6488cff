package routes

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/octavian202/public-transport-management/pkg/database"
	"github.com/octavian202/public-transport-management/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func StopsRouter(router fiber.Router) {
	router.Get("/", listStops)
	router.Get("/nearby", getNearbyStops)
	router.Post("/", createStop)
	router.Get("/:identifier", getStop)
	router.Put("/:identifier", updateStop)
	router.Delete("/:identifier", deleteStop)
	router.Get("/:identifier/upcoming", getStopUpcomingTrips)
}

func listStops(c *fiber.Ctx) error {
	stopsCollection := database.GetCollection("stops")

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := stopsCollection.Find(context.Background(), bson.M{}, opts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	stops := []transit.Stop{}
	if err := cursor.All(context.Background(), &stops); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stops)
}

func getNearbyStops(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)

	if latErr != nil || lonErr != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameters lat and lon are required and must be numbers",
		})
	}

	// Degree-based bounding box, roughly 1km at the default radius.
	radius, err := strconv.ParseFloat(c.Query("radius", "0.01"), 64)
	if err != nil || radius <= 0 {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter radius must be a positive number",
		})
	}

	stopsCollection := database.GetCollection("stops")

	query := bson.M{"location.coordinates": bson.M{"$geoWithin": bson.M{"$box": bson.A{
		bson.A{lon - radius, lat - radius},
		bson.A{lon + radius, lat + radius},
	}}}}

	cursor, err := stopsCollection.Find(context.Background(), query)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	stops := []transit.Stop{}
	if err := cursor.All(context.Background(), &stops); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stops)
}

func getStop(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	stopsCollection := database.GetCollection("stops")
	var stop *transit.Stop
	stopsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&stop)

	if stop == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	return c.JSON(stop)
}

func createStop(c *fiber.Ctx) error {
	var stop transit.Stop
	if err := c.BodyParser(&stop); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse Stop from request body",
		})
	}

	if stop.PrimaryIdentifier == "" || stop.Name == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Stop requires a PrimaryIdentifier and a Name",
		})
	}

	now := time.Now()
	stop.CreationDateTime = now
	stop.ModificationDateTime = now

	stopsCollection := database.GetCollection("stops")
	opts := options.Update().SetUpsert(true)
	_, err := stopsCollection.UpdateOne(context.Background(),
		bson.M{"primaryidentifier": stop.PrimaryIdentifier}, bson.M{"$set": stop}, opts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.SendStatus(fiber.StatusCreated)
	return c.JSON(stop)
}

func updateStop(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	stopsCollection := database.GetCollection("stops")
	var existing *transit.Stop
	stopsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&existing)

	if existing == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	var stop transit.Stop
	if err := c.BodyParser(&stop); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse Stop from request body",
		})
	}

	stop.PrimaryIdentifier = identifier
	stop.CreationDateTime = existing.CreationDateTime
	stop.ModificationDateTime = time.Now()

	_, err := stopsCollection.UpdateOne(context.Background(),
		bson.M{"primaryidentifier": identifier}, bson.M{"$set": stop})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stop)
}

func deleteStop(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	stopsCollection := database.GetCollection("stops")
	result, err := stopsCollection.DeleteOne(context.Background(), bson.M{"primaryidentifier": identifier})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if result.DeletedCount == 0 {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	// Associations referencing the stop go with it.
	routeStopsCollection := database.GetCollection("route_stops")
	routeStopsCollection.DeleteMany(context.Background(), bson.M{"stopref": identifier})

	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}

func getStopUpcomingTrips(c *fiber.Ctx) error {
	identifier := c.Params("identifier")
	count, err := strconv.Atoi(c.Query("count", "10"))
	if err != nil || count <= 0 {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter count should be a positive integer",
		})
	}

	stopsCollection := database.GetCollection("stops")
	var stop *transit.Stop
	stopsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&stop)

	if stop == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	routeStopsCollection := database.GetCollection("route_stops")
	cursor, err := routeStopsCollection.Find(context.Background(), bson.M{"stopref": identifier})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	routeStops := []transit.RouteStop{}
	if err := cursor.All(context.Background(), &routeStops); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	routeRefs := []string{}
	for _, routeStop := range routeStops {
		routeRefs = append(routeRefs, routeStop.RouteRef)
	}
	sort.Strings(routeRefs)

	if len(routeRefs) == 0 {
		return c.JSON([]transit.Trip{})
	}

	now := time.Now()
	tripsCollection := database.GetCollection("trips")
	opts := options.Find().
		SetSort(bson.M{"departuretime": 1}).
		SetLimit(int64(count))
	tripsCursor, err := tripsCollection.Find(context.Background(), bson.M{
		"routeref":      bson.M{"$in": routeRefs},
		"departuretime": bson.M{"$gte": now},
	}, opts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	trips := []transit.Trip{}
	if err := tripsCursor.All(context.Background(), &trips); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	for index := range trips {
		trips[index].Status = trips[index].StatusAt(now)
	}

	return c.JSON(trips)
}
