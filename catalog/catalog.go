/*
Package catalog provides JSON to Go catalogue conversion.

PURPOSE:
  Converts JSON catalogue definitions into the read-only configuration the
  board engine consumes: per-part-number rate tables, the deviation-cause
  taxonomy, the programmed-stop catalogue, and shift definitions. This
  enables configuration without code changes - production engineering can
  maintain catalogues in JSON, and this package creates the proper Go
  structs.

JSON SCHEMA:
  {
    "shifts": [
      {"id": "first", "name": "First shift", "start_hour": 6, "slots": 8}
    ],
    "rate_tables": [
      {
        "part_number": "PN-1042",
        "labor_standard": "3.5",
        "shifts": {
          "first": [
            {"head_count": 4, "rate": "95"},
            {"head_count": 6, "rate": "130"}
          ]
        }
      }
    ],
    "cause_types": [
      {"name": "Equipment", "subcauses": ["Breakdown", "Changeover"]}
    ],
    "programmed_stops": [
      {"name": "Lunch", "duration_minutes": 30,
       "applies_weekday": true, "applies_saturday": false}
    ]
  }

KEY FEATURES:
  - Validates structure and rejects unknown references
  - Sorts rate buckets by head count
  - Decimal rates parsed exactly, never through float64

SEE ALSO:
  - board/types.go: the consumed config types
  - presets.go: built-in defaults for dev and tests
*/
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/linetrack/production-board/board"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type CatalogJSON struct {
	Shifts          []ShiftJSON     `json:"shifts"`
	RateTables      []RateTableJSON `json:"rate_tables"`
	CauseTypes      []CauseTypeJSON `json:"cause_types"`
	ProgrammedStops []StopJSON      `json:"programmed_stops"`
}

type ShiftJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartHour int    `json:"start_hour"`
	Slots     int    `json:"slots"`
	Saturday  bool   `json:"saturday,omitempty"`
}

type RateTableJSON struct {
	PartNumber    string                  `json:"part_number"`
	LaborStandard string                  `json:"labor_standard,omitempty"` // units per person-hour
	Shifts        map[string][]BucketJSON `json:"shifts"`
}

type BucketJSON struct {
	HeadCount int    `json:"head_count"`
	Rate      string `json:"rate"` // decimal string, units per full hour
}

type CauseTypeJSON struct {
	Name      string   `json:"name"`
	Subcauses []string `json:"subcauses"`
}

type StopJSON struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	AppliesWeekday  bool   `json:"applies_weekday"`
	AppliesSaturday bool   `json:"applies_saturday"`
}

// =============================================================================
// CATALOG - Parsed, validated configuration
// =============================================================================

type Catalog struct {
	Shifts   []board.Shift
	Rates    *RateTable
	Taxonomy board.CauseTaxonomy
	Stops    map[string]board.ProgrammedStop
}

// ShiftByID resolves a shift definition, e.g. "first".
func (c *Catalog) ShiftByID(id string) (board.Shift, bool) {
	for _, s := range c.Shifts {
		if s.ID == id {
			return s, true
		}
	}
	return board.Shift{}, false
}

// Parse converts a JSON catalogue into validated engine configuration.
func Parse(data []byte) (*Catalog, error) {
	var raw CatalogJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return Build(raw)
}

// Build validates and converts an already-decoded catalogue.
func Build(raw CatalogJSON) (*Catalog, error) {
	c := &Catalog{
		Rates: NewRateTable(),
		Stops: make(map[string]board.ProgrammedStop),
	}

	for _, s := range raw.Shifts {
		if s.ID == "" {
			return nil, fmt.Errorf("shift with empty id")
		}
		if s.Slots <= 0 || s.Slots > 24 {
			return nil, fmt.Errorf("shift %q: slots must be in 1..24", s.ID)
		}
		if s.StartHour < 0 || s.StartHour > 23 {
			return nil, fmt.Errorf("shift %q: start_hour must be in 0..23", s.ID)
		}
		c.Shifts = append(c.Shifts, board.Shift{
			ID:        s.ID,
			Name:      s.Name,
			StartHour: s.StartHour,
			Slots:     s.Slots,
			Saturday:  s.Saturday,
		})
	}

	for _, rt := range raw.RateTables {
		if rt.PartNumber == "" {
			return nil, fmt.Errorf("rate table with empty part_number")
		}
		if rt.LaborStandard != "" {
			std, err := decimal.NewFromString(rt.LaborStandard)
			if err != nil {
				return nil, fmt.Errorf("part %q: labor_standard: %w", rt.PartNumber, err)
			}
			c.Rates.SetLaborStandard(rt.PartNumber, std)
		}
		for shiftID, buckets := range rt.Shifts {
			if _, ok := c.ShiftByID(shiftID); !ok {
				return nil, fmt.Errorf("part %q: unknown shift %q", rt.PartNumber, shiftID)
			}
			for _, b := range buckets {
				if b.HeadCount <= 0 {
					return nil, fmt.Errorf("part %q: head_count must be positive", rt.PartNumber)
				}
				rate, err := decimal.NewFromString(b.Rate)
				if err != nil {
					return nil, fmt.Errorf("part %q: rate: %w", rt.PartNumber, err)
				}
				if rate.IsNegative() {
					return nil, fmt.Errorf("part %q: rate must not be negative", rt.PartNumber)
				}
				c.Rates.AddBucket(rt.PartNumber, shiftID, board.RateBucket{HeadCount: b.HeadCount, Rate: rate})
			}
		}
	}

	for _, ct := range raw.CauseTypes {
		if ct.Name == "" {
			return nil, fmt.Errorf("cause type with empty name")
		}
		if len(ct.Subcauses) == 0 {
			return nil, fmt.Errorf("cause type %q has no subcauses", ct.Name)
		}
		c.Taxonomy.Types = append(c.Taxonomy.Types, board.CauseType{
			Name:      ct.Name,
			Subcauses: append([]string(nil), ct.Subcauses...),
		})
	}

	for _, st := range raw.ProgrammedStops {
		if st.Name == "" {
			return nil, fmt.Errorf("programmed stop with empty name")
		}
		if st.DurationMinutes <= 0 || st.DurationMinutes > board.FullHourMinutes {
			return nil, fmt.Errorf("programmed stop %q: duration_minutes must be in 1..60", st.Name)
		}
		c.Stops[st.Name] = board.ProgrammedStop{
			Name:            st.Name,
			DurationMinutes: st.DurationMinutes,
			AppliesWeekday:  st.AppliesWeekday,
			AppliesSaturday: st.AppliesSaturday,
		}
	}

	return c, nil
}

// =============================================================================
// RATE TABLE - board.RateSource implementation
// =============================================================================

type rateKey struct {
	PartNumber string
	ShiftID    string
}

type RateTable struct {
	buckets   map[rateKey][]board.RateBucket
	standards map[string]decimal.Decimal
}

func NewRateTable() *RateTable {
	return &RateTable{
		buckets:   make(map[rateKey][]board.RateBucket),
		standards: make(map[string]decimal.Decimal),
	}
}

func (t *RateTable) AddBucket(partNumber, shiftID string, bucket board.RateBucket) {
	k := rateKey{PartNumber: partNumber, ShiftID: shiftID}
	buckets := append(t.buckets[k], bucket)
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].HeadCount < buckets[j].HeadCount })
	t.buckets[k] = buckets
}

func (t *RateTable) SetLaborStandard(partNumber string, rate decimal.Decimal) {
	t.standards[partNumber] = rate
}

func (t *RateTable) Rates(partNumber, shiftID string) []board.RateBucket {
	return t.buckets[rateKey{PartNumber: partNumber, ShiftID: shiftID}]
}

func (t *RateTable) LaborStandard(partNumber string) (decimal.Decimal, bool) {
	std, ok := t.standards[partNumber]
	return std, ok
}

var _ board.RateSource = (*RateTable)(nil)
