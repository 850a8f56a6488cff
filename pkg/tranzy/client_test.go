package tranzy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// testClient points a client at the test server with pacing and backoff
// collapsed so retry behaviour can be observed without real waits.
func testClient(serverURL string) *Client {
	client := NewClient(serverURL, "test-key", "2")
	client.ShapeInitialBackoff = time.Millisecond
	client.limiter = rate.NewLimiter(rate.Inf, 1)

	return client
}

func TestFetchCollections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "2", r.Header.Get("X-Agency-Id"))

		switch r.URL.Path {
		case "/routes":
			json.NewEncoder(w).Encode([]RouteRecord{
				{RouteID: 7, RouteShortName: "7", RouteLongName: "Gara de Nord - Aeroport"},
			})
		case "/stops":
			json.NewEncoder(w).Encode([]StopRecord{
				{StopID: 100, StopName: "Gara de Nord", StopLat: 44.44, StopLon: 26.07},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)

	routes := client.Routes(context.Background())
	require.Len(t, routes, 1)
	assert.Equal(t, 7, routes[0].RouteID)
	assert.Equal(t, "Gara de Nord - Aeroport", routes[0].RouteLongName)

	stops := client.Stops(context.Background())
	require.Len(t, stops, 1)
	assert.Equal(t, "Gara de Nord", stops[0].StopName)
}

func TestFetchCollectionDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)

	// Bulk endpoints never fail the caller, they produce an empty collection.
	routes := client.Routes(context.Background())
	assert.NotNil(t, routes)
	assert.Empty(t, routes)

	trips := client.Trips(context.Background())
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestShapesRetriesRateLimit(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/shapes", r.URL.Path)
		assert.Equal(t, "s1", r.URL.Query().Get("shape_id"))

		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		json.NewEncoder(w).Encode([]ShapePoint{
			{ShapeID: "s1", ShapePtLat: 44.44, ShapePtLon: 26.07, ShapePtSequence: 1},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)

	shapes := client.Shapes(context.Background(), []TripRecord{{TripID: "t1", ShapeID: "s1"}})

	// Two rate limit responses then success on the third attempt.
	assert.Equal(t, 3, requests)
	require.Contains(t, shapes, "s1")
	require.Len(t, shapes["s1"], 1)
	assert.Equal(t, 1, shapes["s1"][0].ShapePtSequence)
}

func TestShapesGivesUpAfterMaxAttempts(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(server.URL)

	shapes := client.Shapes(context.Background(), []TripRecord{{TripID: "t1", ShapeID: "s1"}})

	assert.Equal(t, client.ShapeMaxAttempts, requests)
	assert.NotContains(t, shapes, "s1")
}

func TestShapesOmitsPermanentFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("shape_id") {
		case "s1":
			// Not a rate limit, must not be retried.
			w.WriteHeader(http.StatusInternalServerError)
		case "s2":
			json.NewEncoder(w).Encode([]ShapePoint{
				{ShapeID: "s2", ShapePtLat: 44.45, ShapePtLon: 26.08, ShapePtSequence: 1},
			})
		}
	}))
	defer server.Close()

	client := testClient(server.URL)

	trips := []TripRecord{
		{TripID: "t1", ShapeID: "s1"},
		{TripID: "t2", ShapeID: "s2"},
		{TripID: "t3", ShapeID: ""},
	}

	shapes := client.Shapes(context.Background(), trips)

	require.Len(t, shapes, 1)
	assert.Contains(t, shapes, "s2")
}
