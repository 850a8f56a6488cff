package transit

import (
	"strings"
	"time"
)

type Route struct {
	PrimaryIdentifier string

	CreationDateTime     time.Time
	ModificationDateTime time.Time

	DataSource *DataSource

	Name           string
	Description    string
	OperatingHours string

	VehicleType VehicleType
	Capacity    int
}

// RouteStop associates a Stop with a Route at a strictly increasing StopOrder,
// unique within the route. Reordering is performed by deleting every
// association for the route and recreating them, never by in-place renumbering.
type RouteStop struct {
	PrimaryIdentifier string

	RouteRef  string
	StopRef   string
	StopOrder int
}

type VehicleType string

const (
	VehicleTypeTram       VehicleType = "Tram"
	VehicleTypeMetro      VehicleType = "Metro"
	VehicleTypeTrolleybus VehicleType = "Trolleybus"
	VehicleTypeBus        VehicleType = "Bus"
)

// ClassifyVehicleType infers the vehicle class from keywords in the route name.
// Anything unrecognised runs as a bus.
func ClassifyVehicleType(routeName string) VehicleType {
	name := strings.ToLower(routeName)

	if strings.Contains(name, "tram") {
		return VehicleTypeTram
	}
	if strings.Contains(name, "metro") || strings.Contains(name, "subway") {
		return VehicleTypeMetro
	}
	if strings.Contains(name, "trolley") {
		return VehicleTypeTrolleybus
	}

	return VehicleTypeBus
}

// CapacityRange returns the inclusive passenger capacity bounds for a vehicle class.
func (v VehicleType) CapacityRange() (int, int) {
	switch v {
	case VehicleTypeTram:
		return 100, 200
	case VehicleTypeMetro:
		return 150, 300
	case VehicleTypeTrolleybus:
		return 80, 120
	default:
		return 20, 50
	}
}
