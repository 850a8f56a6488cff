package routes

import (
	"context"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/octavian202/public-transport-management/pkg/database"
	"github.com/octavian202/public-transport-management/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TripsRouter(router fiber.Router) {
	router.Get("/:identifier", getTrip)
	router.Get("/:identifier/occupancy", getTripOccupancy)
	router.Post("/:identifier/occupancy", recordTripOccupancy)
}

func getTrip(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	tripsCollection := database.GetCollection("trips")
	var trip *transit.Trip
	tripsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&trip)

	if trip == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Trip matching Trip Identifier",
		})
	}

	trip.Status = trip.StatusAt(time.Now())

	return c.JSON(trip)
}

func getTripOccupancy(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	tripsCollection := database.GetCollection("trips")
	var trip *transit.Trip
	tripsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&trip)

	if trip == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Trip matching Trip Identifier",
		})
	}

	occupancyCollection := database.GetCollection("occupancy")
	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := occupancyCollection.Find(context.Background(), bson.M{"tripref": identifier}, opts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	records := []transit.OccupancyRecord{}
	if err := cursor.All(context.Background(), &records); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(records)
}

type occupancyReading struct {
	Count     int       `json:"count"`
	Capacity  int       `json:"capacity"`
	Timestamp time.Time `json:"timestamp"`
}

func recordTripOccupancy(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	tripsCollection := database.GetCollection("trips")
	var trip *transit.Trip
	tripsCollection.FindOne(context.Background(), bson.M{"primaryidentifier": identifier}).Decode(&trip)

	if trip == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Trip matching Trip Identifier",
		})
	}

	var reading occupancyReading
	if err := c.BodyParser(&reading); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse occupancy reading from request body",
		})
	}

	if reading.Capacity == 0 {
		reading.Capacity = trip.Capacity
	}

	if reading.Count < 0 || reading.Capacity <= 0 || reading.Count > reading.Capacity {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Reading requires 0 <= count <= capacity",
		})
	}

	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now()
	}

	seated := reading.Count
	maxSeated := int(float64(reading.Capacity) * 0.6)
	if seated > maxSeated {
		seated = maxSeated
	}

	record := transit.OccupancyRecord{
		PrimaryIdentifier: transit.ManualOccupancyIdentifier(identifier, reading.Timestamp),
		CreationDateTime:  time.Now(),
		TripRef:           identifier,
		Timestamp:         reading.Timestamp,
		Count:             reading.Count,
		Percentage:        math.Round(float64(reading.Count)/float64(reading.Capacity)*10000) / 100,
		Seated:            seated,
		Standing:          reading.Count - seated,
		Capacity:          reading.Capacity,
	}

	occupancyCollection := database.GetCollection("occupancy")
	opts := options.Update().SetUpsert(true)
	_, err := occupancyCollection.UpdateOne(context.Background(),
		bson.M{"primaryidentifier": record.PrimaryIdentifier}, bson.M{"$set": record}, opts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.SendStatus(fiber.StatusCreated)
	return c.JSON(record)
}
