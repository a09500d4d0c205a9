/*
ledger.go - The hourly ledger snapshot and its transition functions

PURPOSE:
  Owns the ordered collection of per-hour entries for one shift. The
  ledger is an explicit, externally-owned snapshot: every transition
  (edit, bulk action, adjustment, overtime append) returns a NEW ledger
  and leaves the receiver untouched. Callers decide when a snapshot is
  persisted through the Store.

EDIT INTENTS:
  Field edits are a tagged union of intents dispatched through a single
  reducer (Apply). One kind per field keeps the edits type-safe and makes
  the recompute pipeline explicit: target -> delta -> downtime runs
  synchronously inside the transition, so no later operation can observe
  a stale target.

ORDERING:
  Entries are kept in canonical order at all times: generated hours in
  hour-range order, then overtime hours in append order. Hours missing a
  record are synthesized lazily by EnsureSynthesized - idempotent, safe
  on every read.

SEE ALSO:
  - guard.go: consulted before production edits
  - adjustment.go: correction validation and application
  - store.go: persistence boundary
*/
package board

import (
	"sort"
	"time"
)

// =============================================================================
// LEDGER - Snapshot of one shift's board
// =============================================================================

type Ledger struct {
	Shift      Shift
	HourRanges []string
	Entries    []ProductionEntry

	// Read-only collaborators, shared across snapshots.
	Calc      TargetCalculator
	Allocator CauseAllocator
	Stops     map[string]ProgrammedStop // catalogue, keyed by stop name
}

// NewLedger builds a snapshot over loaded entries. The hour ranges are
// generated once from the shift definition; entries are normalized into
// canonical order.
func NewLedger(shift Shift, calc TargetCalculator, allocator CauseAllocator, stops map[string]ProgrammedStop, entries []ProductionEntry) *Ledger {
	l := &Ledger{
		Shift:      shift,
		HourRanges: shift.HourRanges(),
		Entries:    append([]ProductionEntry(nil), entries...),
		Calc:       calc,
		Allocator:  allocator,
		Stops:      stops,
	}
	l.sortEntries()
	return l
}

func (l *Ledger) sortEntries() {
	rank := make(map[string]int, len(l.HourRanges))
	for i, h := range l.HourRanges {
		rank[h] = i
	}
	sort.SliceStable(l.Entries, func(i, j int) bool {
		a, b := l.Entries[i], l.Entries[j]
		ra, aGen := rank[a.Hour]
		rb, bGen := rank[b.Hour]
		switch {
		case aGen && bGen:
			return ra < rb
		case aGen:
			return true
		case bGen:
			return false
		default:
			// Overtime hours keep append order.
			return a.RegisteredAt.Before(b.RegisteredAt)
		}
	})
}

func (l *Ledger) clone() *Ledger {
	entries := make([]ProductionEntry, len(l.Entries))
	copy(entries, l.Entries)
	for i := range entries {
		if entries[i].Causes != nil {
			causes := make([]CauseEntry, len(entries[i].Causes))
			copy(causes, entries[i].Causes)
			entries[i].Causes = causes
		}
	}
	next := *l
	next.Entries = entries
	return &next
}

// ordered returns pointers to the entries in canonical order.
func (l *Ledger) ordered() []*ProductionEntry {
	out := make([]*ProductionEntry, len(l.Entries))
	for i := range l.Entries {
		out[i] = &l.Entries[i]
	}
	return out
}

// Entry returns the entry for an hour label, or nil.
func (l *Ledger) Entry(hour string) *ProductionEntry {
	for i := range l.Entries {
		if l.Entries[i].Hour == hour {
			return &l.Entries[i]
		}
	}
	return nil
}

// Guard returns an EditGuard over this ledger's allocator.
func (l *Ledger) Guard() EditGuard {
	return NewEditGuard(l.Allocator)
}

// =============================================================================
// SYNTHESIS - Lazy creation of missing hours
// =============================================================================

// EnsureSynthesized appends a default entry for every generated hour that
// has no record yet: head count unset, target 0, production unmeasured, no
// causes. Idempotent; returns the receiver unchanged when nothing is
// missing.
func (l *Ledger) EnsureSynthesized(now time.Time) *Ledger {
	missing := false
	for _, h := range l.HourRanges {
		if l.Entry(h) == nil {
			missing = true
			break
		}
	}
	if !missing {
		return l
	}

	next := l.clone()
	for _, h := range next.HourRanges {
		if next.Entry(h) != nil {
			continue
		}
		next.Entries = append(next.Entries, ProductionEntry{
			ID:             NewEntryID(h, now, false),
			Hour:           h,
			ProgrammedStop: NoStop,
			AvailableTime:  FullHourMinutes,
			RegisteredAt:   now,
		})
	}
	next.sortEntries()
	return next
}

// =============================================================================
// EDIT INTENTS - Tagged union dispatched through one reducer
// =============================================================================

type EditKind string

const (
	EditSetHeadCount      EditKind = "setHeadCount"
	EditSetAdditionalHC   EditKind = "setAdditionalHC"
	EditSetWorkOrder      EditKind = "setWorkOrder"
	EditSetPartNumber     EditKind = "setPartNumber"
	EditSetProduction     EditKind = "setProduction"
	EditSetProgrammedStop EditKind = "setProgrammedStop"
	EditSetCauses         EditKind = "setCauses"
	EditRemoveEntry       EditKind = "removeEntry"
)

// EditIntent is one field edit. Exactly one value field is meaningful per
// kind: IntValue for head counts and production, StringValue for work
// order, part number and stop name, Causes for the cause list.
type EditIntent struct {
	Kind        EditKind
	Hour        string
	IntValue    *int
	StringValue string
	Causes      []CauseEntry
}

// Apply dispatches an edit intent and returns the resulting snapshot.
// The production field is gated by the EditGuard; every transition that
// touches a target input finishes the recompute pipeline before
// returning.
func (l *Ledger) Apply(intent EditIntent) (*Ledger, error) {
	if intent.Kind == EditSetProduction {
		if err := l.Guard().CanEditProduction(l, intent.Hour); err != nil {
			return nil, err
		}
	}

	next := l.clone()
	e := next.Entry(intent.Hour)
	if e == nil {
		return nil, ErrUnknownHour
	}

	switch intent.Kind {
	case EditSetHeadCount:
		e.RealHeadCount = intent.IntValue
		next.Calc.Recompute(e, next.Shift.ID)

	case EditSetAdditionalHC:
		e.AdditionalHC = intent.IntValue

	case EditSetWorkOrder:
		e.WorkOrder = intent.StringValue

	case EditSetPartNumber:
		e.PartNumber = intent.StringValue
		next.Calc.Recompute(e, next.Shift.ID)

	case EditSetProduction:
		e.DailyProduction = intent.IntValue
		RecomputeDerived(e)

	case EditSetProgrammedStop:
		if err := next.setProgrammedStop(e, intent.StringValue); err != nil {
			return nil, err
		}

	case EditSetCauses:
		if len(intent.Causes) > 0 || e.ShortfallUnits() > 0 {
			if err := next.Allocator.Validate(intent.Causes, e.ShortfallUnits()); err != nil {
				return nil, err
			}
		}
		e.Causes = append([]CauseEntry(nil), intent.Causes...)

	case EditRemoveEntry:
		return next.removeEntry(intent.Hour)

	default:
		return nil, ErrInvalidEdit
	}

	return next, nil
}

func (l *Ledger) setProgrammedStop(e *ProductionEntry, stopName string) error {
	if stopName == "" || stopName == NoStop {
		e.ProgrammedStop = NoStop
		e.AvailableTime = FullHourMinutes
	} else {
		stop, ok := l.Stops[stopName]
		if !ok {
			return ErrUnknownStop
		}
		e.ProgrammedStop = stop.Name
		e.AvailableTime = FullHourMinutes - stop.DurationMinutes
		if e.AvailableTime < 0 {
			e.AvailableTime = 0
		}
	}
	l.Calc.Recompute(e, l.Shift.ID)
	return nil
}

// removeEntry drops a row that carries no recorded data. Rows with
// production or causes are refused: removal is a presentation affordance,
// not an erase of measured history.
func (l *Ledger) removeEntry(hour string) (*Ledger, error) {
	for i := range l.Entries {
		if l.Entries[i].Hour != hour {
			continue
		}
		if l.Entries[i].Measured() || l.Entries[i].HasCauses() {
			return nil, ErrEntryImmutable
		}
		l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
		return l, nil
	}
	return nil, ErrUnknownHour
}

// =============================================================================
// BULK ACTIONS
// =============================================================================

// ApplyBulkHeadCount sets the real head count on every entry and reruns
// the recompute pipeline for each.
func (l *Ledger) ApplyBulkHeadCount(value int) *Ledger {
	next := l.clone()
	for i := range next.Entries {
		v := value
		next.Entries[i].RealHeadCount = &v
		next.Calc.Recompute(&next.Entries[i], next.Shift.ID)
	}
	return next
}

// ApplyStopSchedule applies a programmed-stop preset: every entry whose
// hour appears in the schedule gets the named stop and the reduced
// available time, followed by a recompute. Stops not applicable to the
// shift's day type are skipped.
func (l *Ledger) ApplyStopSchedule(schedule StopSchedule) *Ledger {
	next := l.clone()
	for i := range next.Entries {
		name, ok := schedule.Assignments[next.Entries[i].Hour]
		if !ok {
			continue
		}
		stop, ok := next.Stops[name]
		if !ok {
			continue
		}
		if next.Shift.Saturday && !stop.AppliesSaturday {
			continue
		}
		if !next.Shift.Saturday && !stop.AppliesWeekday {
			continue
		}
		next.Entries[i].ProgrammedStop = stop.Name
		next.Entries[i].AvailableTime = FullHourMinutes - stop.DurationMinutes
		if next.Entries[i].AvailableTime < 0 {
			next.Entries[i].AvailableTime = 0
		}
		next.Calc.Recompute(&next.Entries[i], next.Shift.ID)
	}
	return next
}

// =============================================================================
// COPY FROM PREVIOUS HOUR
// =============================================================================

type CopyField string

const (
	CopyWorkOrder  CopyField = "workOrder"
	CopyPartNumber CopyField = "partNumber"
)

// CopyFromPrevious copies the work order or part number from the
// immediately preceding hour. No-op when there is no preceding hour or
// the source value is empty; recomputes the target when the lookup inputs
// became complete.
func (l *Ledger) CopyFromPrevious(hour string, field CopyField) (*Ledger, error) {
	entries := l.ordered()
	idx := -1
	for i, e := range entries {
		if e.Hour == hour {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrUnknownHour
	}
	if idx == 0 {
		return l, nil
	}

	source := entries[idx-1]
	var value string
	switch field {
	case CopyWorkOrder:
		value = source.WorkOrder
	case CopyPartNumber:
		value = source.PartNumber
	default:
		return nil, ErrInvalidEdit
	}
	if value == "" {
		return l, nil
	}

	next := l.clone()
	e := next.Entry(hour)
	switch field {
	case CopyWorkOrder:
		e.WorkOrder = value
	case CopyPartNumber:
		e.PartNumber = value
	}
	next.Calc.Recompute(e, next.Shift.ID)
	return next, nil
}

// =============================================================================
// OVERTIME HOURS
// =============================================================================

// AddOvertimeHour appends the next contiguous hour beyond the last known
// hour, with correct AM/PM rollover at the 12 o'clock boundary. Rejects
// the append when that label already exists; no mutation is performed.
func (l *Ledger) AddOvertimeHour(now time.Time) (*Ledger, error) {
	last := l.HourRanges[len(l.HourRanges)-1]
	if entries := l.ordered(); len(entries) > 0 {
		if tail := entries[len(entries)-1]; tail.IsOvertime {
			last = tail.Hour
		}
	}
	label, err := NextHourRange(last)
	if err != nil {
		return nil, err
	}
	if l.Entry(label) != nil {
		return nil, ErrDuplicateOvertimeHour
	}

	next := l.clone()
	next.Entries = append(next.Entries, ProductionEntry{
		ID:             NewEntryID(label, now, true),
		Hour:           label,
		ProgrammedStop: NoStop,
		AvailableTime:  FullHourMinutes,
		RegisteredAt:   now,
		IsOvertime:     true,
	})
	return next, nil
}

// =============================================================================
// TARGET ADJUSTMENTS
// =============================================================================

// ApplyTargetAdjustment validates and applies a supervisor correction to
// the selected hour or to every entry, per the adjustment's scope. The
// caller appends the adjustment to the audit log after the snapshot is
// accepted.
func (l *Ledger) ApplyTargetAdjustment(adj TargetAdjustment) (*Ledger, error) {
	if err := ValidateAdjustment(adj); err != nil {
		return nil, err
	}

	next := l.clone()
	switch adj.Scope {
	case ScopeSingle:
		e := next.Entry(adj.Hour)
		if e == nil {
			return nil, ErrUnknownHour
		}
		applyAdjustmentTo(e, adj)
	case ScopeShift:
		for i := range next.Entries {
			applyAdjustmentTo(&next.Entries[i], adj)
		}
	}
	return next, nil
}
