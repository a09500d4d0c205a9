/*
Package board provides the core hourly production-board engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking one
  manufacturing shift hour by hour: computed output targets, measured
  production, deviation causes, supervisor corrections, and the rules that
  gate editing and shift closure.

KEY CONCEPTS IN THIS FILE (types.go):
  - ProductionEntry: One hour slot's record (the row of the board)
  - CauseEntry: Attribution of shortfall units to a taxonomy cause
  - TargetAdjustment: Supervisor-entered percentage correction, audited
  - SupportAdjustment: Snapshot of non-production staffing, informational
  - Shift: A named work period divided into hour-length slots

DESIGN PRINCIPLES:
  1. Derived values stay derived: hourly target, delta and downtime are
     always recomputed from their inputs, never entered directly
  2. Precision: rate and percentage math uses decimal.Decimal; integers
     appear only at the model boundary
  3. Snapshots over mutation: the Ledger (ledger.go) returns a new
     snapshot from every transition; callers own persistence timing
  4. Auditability: every target correction lands in an append-only log

SEE ALSO:
  - target.go: Target computation and the recompute pipeline
  - ledger.go: The ledger snapshot and its transition functions
  - guard.go: Hour-by-hour edit gating
  - completion.go: Shift-close validation
*/
package board

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// ShiftKey identifies one ledger: a production date plus a shift ID.
type ShiftKey string

func NewShiftKey(date string, shiftID string) ShiftKey {
	return ShiftKey(date + "|" + shiftID)
}

type EntryID string

// NewEntryID builds the unique key for an hour's record. Overtime rows get
// an explicit tag so they never collide with the generated hour range.
func NewEntryID(hour string, createdAt time.Time, overtime bool) EntryID {
	if overtime {
		return EntryID(fmt.Sprintf("ot|%s|%d", hour, createdAt.UnixNano()))
	}
	return EntryID(fmt.Sprintf("%s|%d", hour, createdAt.UnixNano()))
}

// =============================================================================
// SHIFT - A fixed work period divided into hour slots
// =============================================================================

type Shift struct {
	ID        string // "first", "second", "third", "saturday"
	Name      string
	StartHour int // 24-hour clock hour of the first slot
	Slots     int // number of hour slots in the shift
	Saturday  bool
}

// HourRanges generates the shift's canonical hour labels in order,
// e.g. "06:00 a.m. - 07:00 a.m.". Generated once per ledger; overtime
// hours are appended beyond this range, never inserted into it.
func (s Shift) HourRanges() []string {
	ranges := make([]string, 0, s.Slots)
	for i := 0; i < s.Slots; i++ {
		ranges = append(ranges, FormatHourRange((s.StartHour+i)%24))
	}
	return ranges
}

// =============================================================================
// PRODUCTION ENTRY - One hour slot's record
// =============================================================================

// NoStop is the ProgrammedStop value for an hour without a scheduled stoppage.
const NoStop = "none"

// FullHourMinutes is the available time of an hour without a programmed stop.
const FullHourMinutes = 60

type ProductionEntry struct {
	ID   EntryID
	Hour string // ordering key within the shift, e.g. "06:00 a.m. - 07:00 a.m."

	RealHeadCount *int
	AdditionalHC  *int

	ProgrammedStop string // stop name from the catalogue, or NoStop
	AvailableTime  int    // minutes available for production this hour

	WorkOrder  string
	PartNumber string

	// HourlyTarget is machine-computed (rate lookup x adjustment factor).
	// It is never entered directly; see TargetCalculator.Recompute.
	HourlyTarget int

	// DailyProduction is the only output field a user enters.
	// nil means the hour has not been measured yet.
	DailyProduction *int

	// Delta and Downtime are derived. Delta is defined iff DailyProduction
	// is set. Downtime is 0 whenever Delta >= 0 or HourlyTarget == 0.
	Delta    *int
	Downtime int

	// Causes must reconcile exactly with -Delta before the next hour
	// unlocks, whenever Delta < 0. See CauseAllocator.
	Causes []CauseEntry

	RegisteredAt time.Time

	// TargetAdjustment references the last correction applied to this entry.
	// AdjustmentFactor is the cumulative multiplier of every correction
	// applied so far; recomputation applies it to the freshly computed base
	// so stacked corrections survive a rate re-lookup.
	TargetAdjustment *TargetAdjustment
	AdjustmentFactor decimal.Decimal

	IsOvertime bool
}

// Measured reports whether the hour has a recorded production value.
func (e *ProductionEntry) Measured() bool { return e.DailyProduction != nil }

// HasCauses reports whether any deviation cause has been recorded.
func (e *ProductionEntry) HasCauses() bool { return len(e.Causes) > 0 }

// ShortfallUnits is the number of units that must be attributed to causes.
// Zero when the hour is unmeasured or met its target.
func (e *ProductionEntry) ShortfallUnits() int {
	if e.Delta == nil || *e.Delta >= 0 {
		return 0
	}
	return -*e.Delta
}

func (e *ProductionEntry) adjustmentFactor() decimal.Decimal {
	if e.AdjustmentFactor.IsZero() {
		return decimal.NewFromInt(1)
	}
	return e.AdjustmentFactor
}

// =============================================================================
// CAUSE ENTRY - Attribution of shortfall units to a taxonomy cause
// =============================================================================

type CauseEntry struct {
	TypeCause     string
	GeneralCause  string
	SpecificCause string
	Units         *int // non-negative; nil means not yet entered
}

// =============================================================================
// TARGET ADJUSTMENT - Supervisor percentage correction, audited
// =============================================================================

type AdjustmentScope string

const (
	ScopeShift  AdjustmentScope = "shift"  // every entry in the ledger
	ScopeSingle AdjustmentScope = "single" // only the selected hour
)

type TargetAdjustment struct {
	ID          string
	FactorType  string
	Description string
	Percentage  decimal.Decimal // reduction in [0,100], applied as x(1 - p/100)
	Scope       AdjustmentScope
	Hour        string // set when Scope == ScopeSingle
	AppliedBy   string
	AppliedAt   time.Time
}

// =============================================================================
// SUPPORT ADJUSTMENT - Non-production staffing snapshot
// =============================================================================

// SupportAdjustment records support headcount per position for a shift.
// It is reported alongside RealHeadCount but never subtracted from it and
// never alters any hourly target.
type SupportAdjustment struct {
	ID        string
	Shift     string
	Positions []SupportPosition
	AppliedBy string
	AppliedAt time.Time
}

type SupportPosition struct {
	PositionID string
	Value      int
}

// =============================================================================
// EXTERNAL READ-ONLY CONFIG - Rate table, cause taxonomy, stop catalogue
// =============================================================================

// RateBucket is one head-count row of a part number's rate table.
type RateBucket struct {
	HeadCount int
	Rate      decimal.Decimal // units per full hour at this head count
}

// RateSource is the read-only rate table the TargetCalculator consumes.
// Implemented by catalog.RateTable.
type RateSource interface {
	// Rates returns the head-count buckets for a part number on a shift,
	// ordered by head count. Empty when the part number is unknown.
	Rates(partNumber string, shiftID string) []RateBucket

	// LaborStandard returns the fallback units-per-person-hour rate for a
	// part number without a bucket table.
	LaborStandard(partNumber string) (decimal.Decimal, bool)
}

// CauseType is one branch of the deviation-cause taxonomy.
type CauseType struct {
	Name      string
	Subcauses []string
}

// CauseTaxonomy is the configured cause hierarchy, validated top-down:
// a general cause is only valid under its type, a specific cause and
// units are only valid once a general cause is set.
type CauseTaxonomy struct {
	Types []CauseType
}

func (t CauseTaxonomy) HasType(name string) bool {
	for _, ct := range t.Types {
		if ct.Name == name {
			return true
		}
	}
	return false
}

func (t CauseTaxonomy) Subcauses(typeName string) []string {
	for _, ct := range t.Types {
		if ct.Name == typeName {
			return ct.Subcauses
		}
	}
	return nil
}

func (t CauseTaxonomy) HasSubcause(typeName, general string) bool {
	for _, sc := range t.Subcauses(typeName) {
		if sc == general {
			return true
		}
	}
	return false
}

// ProgrammedStop is one catalogue entry of scheduled stoppages.
type ProgrammedStop struct {
	Name            string
	DurationMinutes int
	AppliesWeekday  bool
	AppliesSaturday bool
}

// StopSchedule assigns catalogue stops to hour labels, e.g. lunch in the
// "11:00 a.m. - 12:00 p.m." slot. Applied as a preset over the ledger.
type StopSchedule struct {
	Assignments map[string]string // hour label -> stop name
}
