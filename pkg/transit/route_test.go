package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVehicleType(t *testing.T) {
	tests := []struct {
		routeName   string
		vehicleType VehicleType
	}{
		{routeName: "Tram 101 - City Centre", vehicleType: VehicleTypeTram},
		{routeName: "Metro M2 North", vehicleType: VehicleTypeMetro},
		{routeName: "Subway Blue Line", vehicleType: VehicleTypeMetro},
		{routeName: "Trolleybus 7", vehicleType: VehicleTypeTrolleybus},
		{routeName: "Express 42", vehicleType: VehicleTypeBus},
		{routeName: "TRAM express", vehicleType: VehicleTypeTram},
	}

	for _, test := range tests {
		t.Run(test.routeName, func(t *testing.T) {
			assert.Equal(t, test.vehicleType, ClassifyVehicleType(test.routeName))
		})
	}
}

func TestCapacityRange(t *testing.T) {
	tests := []struct {
		vehicleType VehicleType
		min         int
		max         int
	}{
		{vehicleType: VehicleTypeTram, min: 100, max: 200},
		{vehicleType: VehicleTypeMetro, min: 150, max: 300},
		{vehicleType: VehicleTypeTrolleybus, min: 80, max: 120},
		{vehicleType: VehicleTypeBus, min: 20, max: 50},
	}

	for _, test := range tests {
		t.Run(string(test.vehicleType), func(t *testing.T) {
			min, max := test.vehicleType.CapacityRange()

			assert.Equal(t, test.min, min)
			assert.Equal(t, test.max, max)
		})
	}
}
