package seeder

import (
	"fmt"
	"os"

	"github.com/octavian202/public-transport-management/pkg/transit"
	"gopkg.in/yaml.v3"
)

// Band describes one recurring service window: a day type, a time window and
// a headway. Bands are deliberately non-overlapping in day type so any
// calendar day matches exactly one band family.
type Band struct {
	Name           string          `yaml:"Name"`
	DayType        transit.DayType `yaml:"DayType"`
	StartTime      string          `yaml:"StartTime"`
	EndTime        string          `yaml:"EndTime"`
	HeadwayMinutes int             `yaml:"HeadwayMinutes"`
}

type Profile struct {
	Bands []Band `yaml:"Bands"`
}

// DefaultProfile is the weekly calendar applied to every route: weekday
// service every 40 minutes from 06:00 to 22:00, progressively sparser weekend
// service including an overnight band, and a reduced holiday service.
func DefaultProfile() Profile {
	return Profile{
		Bands: []Band{
			{Name: "weekday-morning", DayType: transit.DayTypeWeekday, StartTime: "06:00", EndTime: "11:00", HeadwayMinutes: 40},
			{Name: "weekday-afternoon", DayType: transit.DayTypeWeekday, StartTime: "11:00", EndTime: "16:00", HeadwayMinutes: 40},
			{Name: "weekday-evening", DayType: transit.DayTypeWeekday, StartTime: "16:00", EndTime: "22:00", HeadwayMinutes: 40},
			{Name: "weekend-morning", DayType: transit.DayTypeWeekend, StartTime: "07:00", EndTime: "11:00", HeadwayMinutes: 60},
			{Name: "weekend-afternoon", DayType: transit.DayTypeWeekend, StartTime: "11:00", EndTime: "16:00", HeadwayMinutes: 80},
			{Name: "weekend-evening", DayType: transit.DayTypeWeekend, StartTime: "16:00", EndTime: "22:00", HeadwayMinutes: 100},
			{Name: "weekend-night", DayType: transit.DayTypeWeekend, StartTime: "22:00", EndTime: "07:00", HeadwayMinutes: 140},
			{Name: "holiday", DayType: transit.DayTypeHoliday, StartTime: "07:00", EndTime: "22:00", HeadwayMinutes: 100},
		},
	}
}

// LoadProfile reads a band profile from a YAML file.
func LoadProfile(path string) (Profile, error) {
	var profile Profile

	contents, err := os.ReadFile(path)
	if err != nil {
		return profile, err
	}

	err = yaml.Unmarshal(contents, &profile)
	if err != nil {
		return profile, err
	}

	if len(profile.Bands) == 0 {
		return profile, fmt.Errorf("profile %s contains no bands", path)
	}

	for _, band := range profile.Bands {
		switch band.DayType {
		case transit.DayTypeWeekday, transit.DayTypeWeekend, transit.DayTypeHoliday:
		default:
			return profile, fmt.Errorf("profile %s: band %s has unknown day type %q", path, band.Name, band.DayType)
		}
	}

	return profile, nil
}
