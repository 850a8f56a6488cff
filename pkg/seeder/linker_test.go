package seeder

import (
	"testing"

	"github.com/octavian202/public-transport-management/pkg/tranzy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStopsByRoute(t *testing.T) {
	trips := []tranzy.TripRecord{
		{TripID: "t1", RouteID: 7},
		{TripID: "t2", RouteID: 7},
		{TripID: "t3", RouteID: 9},
	}

	stopTimes := []tranzy.StopTimeRecord{
		{TripID: "t1", StopID: 100, StopSequence: 1},
		{TripID: "t1", StopID: 101, StopSequence: 2},
		{TripID: "t1", StopID: 102, StopSequence: 3},
		// A second trip of the same route sees stop 101 later in the run;
		// the smallest observed sequence wins.
		{TripID: "t2", StopID: 101, StopSequence: 5},
		{TripID: "t3", StopID: 200, StopSequence: 1},
		// Not attached to any known trip.
		{TripID: "ghost", StopID: 999, StopSequence: 1},
	}

	ordered := OrderStopsByRoute(trips, stopTimes)

	require.Len(t, ordered, 2)
	assert.Equal(t, []string{"stop-100", "stop-101", "stop-102"}, ordered["route-7"])
	assert.Equal(t, []string{"stop-200"}, ordered["route-9"])
}

func TestOrderStopsByRouteTieBreak(t *testing.T) {
	trips := []tranzy.TripRecord{{TripID: "t1", RouteID: 7}}

	stopTimes := []tranzy.StopTimeRecord{
		{TripID: "t1", StopID: 102, StopSequence: 1},
		{TripID: "t1", StopID: 100, StopSequence: 1},
	}

	ordered := OrderStopsByRoute(trips, stopTimes)

	// Equal sequences fall back to identifier order so the result is stable.
	assert.Equal(t, []string{"stop-100", "stop-102"}, ordered["route-7"])
}

func TestOrderStopsByRouteEmpty(t *testing.T) {
	assert.Empty(t, OrderStopsByRoute(nil, nil))
}
