package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createStopsIndexes()
	createRoutesIndexes()
	createScheduleIndexes()
	createOccupancyIndexes()
}

func createCollectionIndexes(collectionName string, indexes []mongo.IndexModel) {
	collection := GetCollection(collectionName)

	opts := options.CreateIndexes()
	_, err := collection.Indexes().CreateMany(context.Background(), indexes, opts)
	if err != nil {
		log.Error().Err(err).Str("collection", collectionName).Msg("Creating Index")
	}
}

func createStopsIndexes() {
	createCollectionIndexes("stops", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location.coordinates", Value: "2d"}},
		},
	})
}

func createRoutesIndexes() {
	createCollectionIndexes("routes", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
	})

	createCollectionIndexes("route_stops", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "routeref", Value: 1}, {Key: "stoporder", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "stopref", Value: 1}},
		},
	})
}

func createScheduleIndexes() {
	createCollectionIndexes("timetable_entries", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "daytype", Value: 1}, {Key: "routeref", Value: 1}, {Key: "departureslot", Value: 1}, {Key: "departuretime", Value: 1}},
		},
	})

	createCollectionIndexes("trips", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "routeref", Value: 1}, {Key: "date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "departuretime", Value: 1}},
		},
	})
}

func createOccupancyIndexes() {
	createCollectionIndexes("occupancy", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "tripref", Value: 1}, {Key: "timestamp", Value: 1}},
		},
	})
}
