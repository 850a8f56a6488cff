package seeder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/octavian202/public-transport-management/pkg/transit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	profile := DefaultProfile()

	require.Len(t, profile.Bands, 8)

	byDayType := map[transit.DayType]int{}
	for _, band := range profile.Bands {
		byDayType[band.DayType]++
		assert.Positive(t, band.HeadwayMinutes)
	}

	assert.Equal(t, 3, byDayType[transit.DayTypeWeekday])
	assert.Equal(t, 4, byDayType[transit.DayTypeWeekend])
	assert.Equal(t, 1, byDayType[transit.DayTypeHoliday])
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	contents := `
Bands:
  - Name: weekday-all-day
    DayType: Weekday
    StartTime: "05:30"
    EndTime: "23:00"
    HeadwayMinutes: 20
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	require.Len(t, profile.Bands, 1)
	assert.Equal(t, "weekday-all-day", profile.Bands[0].Name)
	assert.Equal(t, transit.DayTypeWeekday, profile.Bands[0].DayType)
	assert.Equal(t, 20, profile.Bands[0].HeadwayMinutes)
}

func TestLoadProfileInvalid(t *testing.T) {
	directory := t.TempDir()

	_, err := LoadProfile(filepath.Join(directory, "missing.yaml"))
	assert.Error(t, err)

	emptyPath := filepath.Join(directory, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, []byte("Bands: []\n"), 0644))
	_, err = LoadProfile(emptyPath)
	assert.Error(t, err)

	badDayTypePath := filepath.Join(directory, "bad.yaml")
	badContents := `
Bands:
  - Name: schooldays
    DayType: Schoolday
    StartTime: "07:00"
    EndTime: "09:00"
    HeadwayMinutes: 10
`
	require.NoError(t, os.WriteFile(badDayTypePath, []byte(badContents), 0644))
	_, err = LoadProfile(badDayTypePath)
	assert.Error(t, err)
}
