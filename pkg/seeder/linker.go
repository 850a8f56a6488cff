package seeder

import (
	"sort"
	"strconv"

	"github.com/octavian202/public-transport-management/pkg/transit"
	"github.com/octavian202/public-transport-management/pkg/tranzy"
)

// OrderStopsByRoute derives the ordered stop sequence of every route from the
// raw GTFS trip and stop_time records: a stop's position on a route is its
// smallest observed stop_sequence across all of the route's trips.
func OrderStopsByRoute(trips []tranzy.TripRecord, stopTimes []tranzy.StopTimeRecord) map[string][]string {
	tripRoutes := map[string]string{}
	for _, trip := range trips {
		tripRoutes[trip.TripID] = transit.RouteIdentifier(strconv.Itoa(trip.RouteID))
	}

	type stopSequence struct {
		stopRef     string
		minSequence int
	}

	routeStops := map[string]map[string]*stopSequence{}

	for _, stopTime := range stopTimes {
		routeRef, known := tripRoutes[stopTime.TripID]
		if !known {
			continue
		}

		stopRef := transit.StopIdentifier(strconv.Itoa(stopTime.StopID))

		if routeStops[routeRef] == nil {
			routeStops[routeRef] = map[string]*stopSequence{}
		}

		sequence := routeStops[routeRef][stopRef]
		if sequence == nil {
			routeStops[routeRef][stopRef] = &stopSequence{stopRef: stopRef, minSequence: stopTime.StopSequence}
		} else if stopTime.StopSequence < sequence.minSequence {
			sequence.minSequence = stopTime.StopSequence
		}
	}

	ordered := map[string][]string{}

	for routeRef, stops := range routeStops {
		sequences := make([]*stopSequence, 0, len(stops))
		for _, sequence := range stops {
			sequences = append(sequences, sequence)
		}

		sort.Slice(sequences, func(i, j int) bool {
			if sequences[i].minSequence != sequences[j].minSequence {
				return sequences[i].minSequence < sequences[j].minSequence
			}
			return sequences[i].stopRef < sequences[j].stopRef
		})

		stopRefs := make([]string, len(sequences))
		for i, sequence := range sequences {
			stopRefs[i] = sequence.stopRef
		}

		ordered[routeRef] = stopRefs
	}

	return ordered
}
