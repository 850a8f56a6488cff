package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/octavian202/public-transport-management/pkg/transit"
	"github.com/octavian202/public-transport-management/pkg/util"
)

const minutesPerDay = 24 * 60

// ExpandBand turns one timetable band into concrete timetable entries for a
// route: one entry per (departure slot x stop). Departures are evenly spaced
// by the band headway starting at the band start time; a band whose end time
// is lexicographically before its start crosses midnight and the clock wraps
// modulo 24 hours. Each stop's time is the slot time plus a cumulative 2-5
// minute hop offset in stop order, so later stops always carry later (or
// wrapped) times than earlier ones within a slot.
func ExpandBand(routeRef string, orderedStopRefs []string, band Band, validFrom time.Time, validUntil time.Time, rng *rand.Rand) ([]transit.TimetableEntry, error) {
	startMinute, err := util.ParseClock(band.StartTime)
	if err != nil {
		return nil, fmt.Errorf("band %s: %w", band.Name, err)
	}
	endMinute, err := util.ParseClock(band.EndTime)
	if err != nil {
		return nil, fmt.Errorf("band %s: %w", band.Name, err)
	}
	if band.HeadwayMinutes <= 0 {
		return nil, fmt.Errorf("band %s: headway must be positive", band.Name)
	}

	totalSpan := endMinute - startMinute
	if endMinute < startMinute {
		totalSpan = endMinute + minutesPerDay - startMinute
	}

	departures := totalSpan / band.HeadwayMinutes

	now := time.Now()
	var entries []transit.TimetableEntry

	slotMinute := startMinute
	for slot := 0; slot < departures; slot++ {
		slotClock := util.FormatClock(slotMinute)

		stopMinute := slotMinute
		for _, stopRef := range orderedStopRefs {
			stopMinute += 2 + rng.Intn(4)

			entries = append(entries, transit.TimetableEntry{
				PrimaryIdentifier: transit.TimetableEntryIdentifier(routeRef, stopRef, slotClock, band.DayType),

				CreationDateTime:     now,
				ModificationDateTime: now,

				RouteRef: routeRef,
				StopRef:  stopRef,

				DepartureSlot: slotClock,
				DepartureTime: util.FormatClock(stopMinute),

				DayType: band.DayType,

				ValidFrom:  validFrom,
				ValidUntil: validUntil,
			})
		}

		slotMinute = (slotMinute + band.HeadwayMinutes) % minutesPerDay
	}

	return entries, nil
}
