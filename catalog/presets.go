/*
presets.go - Built-in catalogue defaults

PURPOSE:
  Go-side defaults for dev servers and tests: the standard shift grid,
  a cause taxonomy, the programmed-stop catalogue, stop schedules per
  shift, and a small demo rate table. Production deployments load their
  own JSON instead (see catalog.Parse).
*/
package catalog

import (
	"github.com/linetrack/production-board/board"
)

// Default returns a fully populated catalogue.
func Default() *Catalog {
	c, err := Build(DefaultJSON())
	if err != nil {
		// The built-in catalogue is static; a build failure is a programming
		// error caught by the package tests.
		panic(err)
	}
	return c
}

// DefaultJSON is the built-in catalogue in its JSON schema form, so tests
// can exercise the same path production configs take.
func DefaultJSON() CatalogJSON {
	return CatalogJSON{
		Shifts: []ShiftJSON{
			{ID: "first", Name: "First shift", StartHour: 6, Slots: 8},
			{ID: "second", Name: "Second shift", StartHour: 14, Slots: 8},
			{ID: "third", Name: "Third shift", StartHour: 22, Slots: 8},
			{ID: "saturday", Name: "Saturday shift", StartHour: 6, Slots: 6, Saturday: true},
		},
		RateTables: []RateTableJSON{
			{
				PartNumber: "PN-1042",
				Shifts: map[string][]BucketJSON{
					"first": {
						{HeadCount: 4, Rate: "95"},
						{HeadCount: 6, Rate: "130"},
						{HeadCount: 8, Rate: "160"},
					},
					"second": {
						{HeadCount: 4, Rate: "90"},
						{HeadCount: 6, Rate: "124"},
					},
					"saturday": {
						{HeadCount: 4, Rate: "88"},
					},
				},
			},
			{
				PartNumber: "PN-2210",
				Shifts: map[string][]BucketJSON{
					"first": {
						{HeadCount: 3, Rate: "55"},
						{HeadCount: 5, Rate: "82.5"},
					},
				},
			},
			// Labor-standard-only part: no bucket table anywhere.
			{PartNumber: "PN-9001", LaborStandard: "12.5", Shifts: map[string][]BucketJSON{}},
		},
		CauseTypes: []CauseTypeJSON{
			{Name: "Equipment", Subcauses: []string{"Breakdown", "Changeover", "Tooling"}},
			{Name: "Material", Subcauses: []string{"Shortage", "Defective input"}},
			{Name: "Personnel", Subcauses: []string{"Absence", "Training"}},
			{Name: "Quality", Subcauses: []string{"Rework", "Scrap"}},
		},
		ProgrammedStops: []StopJSON{
			{Name: "Lunch", DurationMinutes: 30, AppliesWeekday: true, AppliesSaturday: false},
			{Name: "Break", DurationMinutes: 10, AppliesWeekday: true, AppliesSaturday: true},
			{Name: "5S cleanup", DurationMinutes: 15, AppliesWeekday: true, AppliesSaturday: true},
		},
	}
}

// DefaultStopSchedule assigns the catalogue stops to their usual slots for
// a shift: break mid-morning, lunch at the fourth slot, cleanup at the end.
func DefaultStopSchedule(shift board.Shift) board.StopSchedule {
	ranges := shift.HourRanges()
	assignments := make(map[string]string)
	if len(ranges) > 2 {
		assignments[ranges[2]] = "Break"
	}
	if len(ranges) > 4 {
		assignments[ranges[4]] = "Lunch"
	}
	if len(ranges) > 0 {
		assignments[ranges[len(ranges)-1]] = "5S cleanup"
	}
	return board.StopSchedule{Assignments: assignments}
}
