package transit

import (
	"fmt"
	"strings"
	"time"
)

// Every stage of the seed pipeline derives entity identity from natural keys
// through these functions, so re-running a stage upserts the same documents
// instead of inserting duplicates.

func StopIdentifier(gtfsStopID string) string {
	return fmt.Sprintf("stop-%s", gtfsStopID)
}

func RouteIdentifier(gtfsRouteID string) string {
	return fmt.Sprintf("route-%s", gtfsRouteID)
}

func RouteStopIdentifier(routeRef string, stopRef string) string {
	return fmt.Sprintf("routestop-%s-%s", routeRef, stopRef)
}

func TimetableEntryIdentifier(routeRef string, stopRef string, departureTime string, dayType DayType) string {
	return fmt.Sprintf("timetable-%s-%s-%s-%s",
		routeRef, stopRef, strings.ReplaceAll(departureTime, ":", ""), strings.ToLower(string(dayType)))
}

func TripIdentifier(routeRef string, date time.Time, departureTime string) string {
	return fmt.Sprintf("trip-%s-%s-%s",
		routeRef, date.Format("2006-01-02"), strings.ReplaceAll(departureTime, ":", ""))
}

func OccupancyIdentifier(tripRef string, sampleIndex int) string {
	return fmt.Sprintf("occupancy-%s-%d", tripRef, sampleIndex)
}

// ManualOccupancyIdentifier keys operator-submitted readings. The "reading"
// segment keeps them out of the synthesizer's index key space, and nanosecond
// resolution keeps multiple readings within one second distinct.
func ManualOccupancyIdentifier(tripRef string, timestamp time.Time) string {
	return fmt.Sprintf("occupancy-%s-reading-%d", tripRef, timestamp.UnixNano())
}
