package seeder

import (
	"math/rand"
	"sort"
	"time"

	"github.com/octavian202/public-transport-management/pkg/transit"
	"github.com/octavian202/public-transport-management/pkg/util"
	"github.com/rs/zerolog/log"
)

var vehicleFeatures = []string{
	"WiFi",
	"USB charging ports",
	"Air conditioning",
	"Bike racks",
	"Priority seating",
	"Real-time tracking",
}

// BuildTripsForDate materialises one calendar day of trips from the timetable
// entries matching that day's classification. Entries are grouped by
// (route, departure slot); every stop sharing a slot forms one trip, ordered
// by the stop's position on the route. A group needs at least an origin and a
// destination or it is discarded. An entry whose stop has no ordering on the
// route is a data-integrity gap: it is skipped and logged, never fatal.
func BuildTripsForDate(date time.Time, now time.Time, entries []transit.TimetableEntry, stopOrders map[string]map[string]int, routes map[string]*transit.Route, rng *rand.Rand) []transit.Trip {
	date = util.TruncateToDay(date)
	dayType := transit.ClassifyDate(date)

	type groupKey struct {
		routeRef string
		slot     string
	}

	groups := map[groupKey][]transit.TimetableEntry{}
	for _, entry := range entries {
		if !entryMatchesDay(&entry, dayType) {
			continue
		}

		key := groupKey{routeRef: entry.RouteRef, slot: entry.DepartureSlot}
		groups[key] = append(groups[key], entry)
	}

	// Deterministic iteration keeps the seeded randomness reproducible.
	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].routeRef != keys[j].routeRef {
			return keys[i].routeRef < keys[j].routeRef
		}
		return keys[i].slot < keys[j].slot
	})

	var trips []transit.Trip

	for _, key := range keys {
		route := routes[key.routeRef]
		if route == nil {
			log.Warn().Str("route", key.routeRef).Msg("Timetable entries reference unknown route")
			continue
		}

		orders := stopOrders[key.routeRef]

		group := groups[key][:0:0]
		for _, entry := range groups[key] {
			if _, hasOrder := orders[entry.StopRef]; !hasOrder {
				log.Warn().Str("route", key.routeRef).Str("stop", entry.StopRef).Msg("Stop has no ordering on route, skipping timetable entry")
				continue
			}
			group = append(group, entry)
		}

		if len(group) < 2 {
			log.Debug().Str("route", key.routeRef).Str("slot", key.slot).Msg("Departure group smaller than two stops, discarding")
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return orders[group[i].StopRef] < orders[group[j].StopRef]
		})

		firstEntry := group[0]
		lastEntry := group[len(group)-1]

		departureMinute, err := util.ParseClock(firstEntry.DepartureTime)
		if err != nil {
			log.Warn().Err(err).Str("entry", firstEntry.PrimaryIdentifier).Msg("Unparseable departure time")
			continue
		}
		arrivalMinute, err := util.ParseClock(lastEntry.DepartureTime)
		if err != nil {
			log.Warn().Err(err).Str("entry", lastEntry.PrimaryIdentifier).Msg("Unparseable departure time")
			continue
		}

		departureTime := util.AddClockToDate(date, departureMinute)
		arrivalTime := util.AddClockToDate(date, arrivalMinute)
		if arrivalMinute < departureMinute {
			// The journey crosses midnight, so arrival rolls to the next day.
			arrivalTime = arrivalTime.AddDate(0, 0, 1)
		}

		trips = append(trips, transit.Trip{
			PrimaryIdentifier: transit.TripIdentifier(key.routeRef, date, key.slot),

			CreationDateTime:     now,
			ModificationDateTime: now,

			RouteRef:          key.routeRef,
			TimetableEntryRef: firstEntry.PrimaryIdentifier,

			VehicleType: route.VehicleType,
			Capacity:    route.Capacity,
			Features:    randomSubset(vehicleFeatures, 3, rng),

			Date:          date,
			DepartureTime: departureTime,
			ArrivalTime:   arrivalTime,

			Status: transit.CalculateTripStatus(now, departureTime, arrivalTime),
		})
	}

	return trips
}

// entryMatchesDay guards against entries from another band family slipping
// into a day's materialisation; a date belongs to exactly one family.
func entryMatchesDay(entry *transit.TimetableEntry, dayType transit.DayType) bool {
	switch dayType {
	case transit.DayTypeHoliday:
		return entry.IsHoliday()
	case transit.DayTypeWeekend:
		return entry.IsWeekend()
	default:
		return entry.IsWeekday()
	}
}

// randomSubset picks up to maxPicks distinct elements from source.
func randomSubset(source []string, maxPicks int, rng *rand.Rand) []string {
	picks := rng.Intn(maxPicks + 1)

	selected := []string{}
	seen := map[string]bool{}

	for i := 0; i < picks; i++ {
		candidate := source[rng.Intn(len(source))]
		if seen[candidate] {
			continue
		}

		seen[candidate] = true
		selected = append(selected, candidate)
	}

	return selected
}
