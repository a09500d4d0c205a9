package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linetrack/production-board/catalog"
)

func TestDefault_Builds(t *testing.T) {
	c := catalog.Default()

	require.Len(t, c.Shifts, 4)
	first, ok := c.ShiftByID("first")
	require.True(t, ok)
	assert.Equal(t, 8, first.Slots)

	saturday, ok := c.ShiftByID("saturday")
	require.True(t, ok)
	assert.True(t, saturday.Saturday)

	assert.NotEmpty(t, c.Taxonomy.Types)
	assert.Contains(t, c.Stops, "Lunch")
}

func TestParse_RoundTripsDefaultJSON(t *testing.T) {
	// The built-in catalogue must survive the same JSON path production
	// configs take.
	data, err := json.Marshal(catalog.DefaultJSON())
	require.NoError(t, err)

	c, err := catalog.Parse(data)
	require.NoError(t, err)

	buckets := c.Rates.Rates("PN-1042", "first")
	require.Len(t, buckets, 3)
	assert.Equal(t, 4, buckets[0].HeadCount, "buckets sorted by head count")
	assert.Equal(t, "95", buckets[0].Rate.String())

	std, ok := c.Rates.LaborStandard("PN-9001")
	require.True(t, ok)
	assert.Equal(t, "12.5", std.String())
}

func TestParse_Rejections(t *testing.T) {
	base := func() catalog.CatalogJSON { return catalog.DefaultJSON() }

	cases := []struct {
		name   string
		mutate func(*catalog.CatalogJSON)
	}{
		{"empty shift id", func(c *catalog.CatalogJSON) { c.Shifts[0].ID = "" }},
		{"zero slots", func(c *catalog.CatalogJSON) { c.Shifts[0].Slots = 0 }},
		{"start hour out of range", func(c *catalog.CatalogJSON) { c.Shifts[0].StartHour = 24 }},
		{"unknown shift in rate table", func(c *catalog.CatalogJSON) {
			c.RateTables[0].Shifts["night-b"] = c.RateTables[0].Shifts["first"]
		}},
		{"malformed rate", func(c *catalog.CatalogJSON) {
			c.RateTables[0].Shifts["first"][0].Rate = "fast"
		}},
		{"negative rate", func(c *catalog.CatalogJSON) {
			c.RateTables[0].Shifts["first"][0].Rate = "-5"
		}},
		{"non-positive head count", func(c *catalog.CatalogJSON) {
			c.RateTables[0].Shifts["first"][0].HeadCount = 0
		}},
		{"cause type without subcauses", func(c *catalog.CatalogJSON) {
			c.CauseTypes[0].Subcauses = nil
		}},
		{"stop over an hour", func(c *catalog.CatalogJSON) {
			c.ProgrammedStops[0].DurationMinutes = 61
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw := base()
			c.mutate(&raw)
			_, err := catalog.Build(raw)
			assert.Error(t, err)
		})
	}
}

func TestRates_UnknownPartIsEmpty(t *testing.T) {
	c := catalog.Default()
	assert.Empty(t, c.Rates.Rates("PN-0000", "first"))
	_, ok := c.Rates.LaborStandard("PN-0000")
	assert.False(t, ok)
}

func TestDefaultStopSchedule(t *testing.T) {
	c := catalog.Default()
	first, _ := c.ShiftByID("first")

	schedule := catalog.DefaultStopSchedule(first)
	ranges := first.HourRanges()

	assert.Equal(t, "Break", schedule.Assignments[ranges[2]])
	assert.Equal(t, "Lunch", schedule.Assignments[ranges[4]])
	assert.Equal(t, "5S cleanup", schedule.Assignments[ranges[len(ranges)-1]])
}
