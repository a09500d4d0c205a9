/*
guard.go - Hour-by-hour edit gating

PURPOSE:
  Enforces the edit order of the board: hour N's production value only
  becomes editable once hour N-1 is complete - production recorded, and
  causes reconciled if a shortfall existed. The first hour is always
  editable.

STATES:
  Locked          prior hour not yet complete
  Editable        open for a production value
  AwaitingCauses  production recorded, shortfall not yet attributed
  Resolved        production recorded and reconciled

  Propagation is forward-only: re-editing an already-resolved hour does
  not retroactively re-lock later hours. Each gate is evaluated against
  the CURRENT state of the immediately preceding hour only.

SEE ALSO:
  - ledger.go: the reducer consults CanEditProduction on production edits
  - errors.go: EditLockedError with the specific lock reason
*/
package board

// HourState is the edit-gating state of one hour slot.
type HourState string

const (
	StateLocked         HourState = "locked"
	StateEditable       HourState = "editable"
	StateAwaitingCauses HourState = "awaiting_causes"
	StateResolved       HourState = "resolved"
)

// EditGuard evaluates hour states over a ledger snapshot. Resolution of a
// shortfall is delegated to the CauseAllocator so both gates agree on what
// "reconciled" means.
type EditGuard struct {
	Allocator CauseAllocator
}

func NewEditGuard(allocator CauseAllocator) EditGuard {
	return EditGuard{Allocator: allocator}
}

// resolved: production recorded AND (delta >= 0 OR causes reconcile).
func (g EditGuard) resolved(e *ProductionEntry) bool {
	return e.Measured() && g.Allocator.Satisfied(e)
}

// StateFor returns the gating state of an hour on the board. Overtime
// hours participate after the generated range, in append order.
func (g EditGuard) StateFor(l *Ledger, hour string) HourState {
	entries := l.ordered()
	for i, e := range entries {
		if e.Hour != hour {
			continue
		}
		if e.Measured() {
			if g.Allocator.Satisfied(e) {
				return StateResolved
			}
			return StateAwaitingCauses
		}
		if i == 0 || g.resolved(entries[i-1]) {
			return StateEditable
		}
		return StateLocked
	}
	return StateLocked
}

// CanEditProduction returns nil when the hour accepts a production value,
// or an EditLockedError naming the prior hour and the specific reason.
// Already-resolved hours accept edits again without restriction.
func (g EditGuard) CanEditProduction(l *Ledger, hour string) error {
	entries := l.ordered()
	for i, e := range entries {
		if e.Hour != hour {
			continue
		}
		if g.resolved(e) {
			return nil
		}
		if i == 0 || g.resolved(entries[i-1]) {
			return nil
		}
		prior := entries[i-1]
		reason := ReasonPriorIncomplete
		if prior.Measured() {
			reason = ReasonAwaitingCauses
		}
		return &EditLockedError{Hour: hour, PriorHour: prior.Hour, Reason: reason}
	}
	return ErrUnknownHour
}

// States returns the state of every hour on the board, keyed by hour label.
func (g EditGuard) States(l *Ledger) map[string]HourState {
	states := make(map[string]HourState, len(l.Entries))
	for _, e := range l.ordered() {
		states[e.Hour] = g.StateFor(l, e.Hour)
	}
	return states
}
