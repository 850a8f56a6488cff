package transit

import "time"

type Stop struct {
	PrimaryIdentifier string

	CreationDateTime     time.Time
	ModificationDateTime time.Time

	DataSource *DataSource

	Name     string
	Location *Location

	Accessibility []string
}

type Location struct {
	Type        string    `json:"-"`
	Coordinates []float64 `json:"coordinates"` // lon, lat
}
