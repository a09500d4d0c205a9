/*
errors.go - Centralized error types for the board engine

PURPOSE:
  All error kinds in one place. Every condition here is local and
  recoverable: the caller re-presents state and the user corrects input.
  Nothing in the core is fatal to the process; lower-level failures
  (persistence unavailable) belong to the store, not to this package.

ERROR CATEGORIES:
  1. Adjustment errors - malformed supervisor corrections
  2. Cause errors      - taxonomy violations and unit mismatches
  3. Sequencing errors - edit-order and overtime-hour violations
  4. Closure errors    - aggregate shift-completion failures

USAGE:
  Check kind with errors.Is, extract detail with errors.As:

    if errors.Is(err, board.ErrEditLocked) {
        var locked *board.EditLockedError
        errors.As(err, &locked)
        // locked.Reason distinguishes AwaitingCauses from PriorIncomplete
    }
*/
package board

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAdjustment is returned for a malformed percentage, factor
	// type, or description on an adjustment call. No mutation is performed.
	ErrInvalidAdjustment = errors.New("invalid adjustment")

	// ErrCauseAllocationMismatch is returned when allocated cause units do
	// not reconcile exactly with the measured shortfall.
	ErrCauseAllocationMismatch = errors.New("cause allocation mismatch")

	// ErrInvalidCause is returned when a cause entry violates the taxonomy
	// or is missing a required field.
	ErrInvalidCause = errors.New("invalid cause entry")

	// ErrDuplicateOvertimeHour is returned when the next overtime label
	// already exists on the board. No mutation is performed.
	ErrDuplicateOvertimeHour = errors.New("duplicate overtime hour")

	// ErrEditLocked is returned on an attempted edit of a non-editable hour.
	ErrEditLocked = errors.New("hour is locked for editing")

	// ErrShiftIncomplete is returned by shift close when required data is
	// missing; it carries the complete per-hour deficiency list.
	ErrShiftIncomplete = errors.New("shift incomplete")

	// ErrEntryImmutable is returned when removing an hour that already
	// carries production or causes.
	ErrEntryImmutable = errors.New("entry has recorded data and cannot be removed")

	// ErrUnknownHour is returned when an operation references an hour label
	// with no matching entry on the board.
	ErrUnknownHour = errors.New("unknown hour")

	// ErrUnknownStop is returned when an edit names a programmed stop that
	// is not in the catalogue.
	ErrUnknownStop = errors.New("unknown programmed stop")

	// ErrInvalidEdit is returned for an edit intent with an unknown kind or
	// copy field.
	ErrInvalidEdit = errors.New("invalid edit intent")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidAdjustmentError reports which adjustment field was rejected.
type InvalidAdjustmentError struct {
	Field  string // "percentage", "factorType", "description", "scope", "hour"
	Reason string
}

func (e *InvalidAdjustmentError) Error() string {
	return fmt.Sprintf("invalid adjustment: %s %s", e.Field, e.Reason)
}

func (e *InvalidAdjustmentError) Unwrap() error { return ErrInvalidAdjustment }

// CauseAllocationError reports the exact unit gap between allocated causes
// and the measured shortfall. The check is exact equality in both directions.
type CauseAllocationError struct {
	Required  int
	Allocated int
}

// Gap is the sign-agnostic unit difference reported to the user.
func (e *CauseAllocationError) Gap() int {
	if e.Allocated > e.Required {
		return e.Allocated - e.Required
	}
	return e.Required - e.Allocated
}

func (e *CauseAllocationError) Error() string {
	if e.Allocated < e.Required {
		return fmt.Sprintf("causes allocate %d of %d units: %d units unallocated",
			e.Allocated, e.Required, e.Gap())
	}
	return fmt.Sprintf("causes allocate %d of %d units: %d units in excess",
		e.Allocated, e.Required, e.Gap())
}

func (e *CauseAllocationError) Unwrap() error { return ErrCauseAllocationMismatch }

// CauseFieldError reports the first invalid field of a cause entry.
type CauseFieldError struct {
	Index  int    // position in the cause list
	Field  string // "typeCause", "generalCause", "specificCause", "units"
	Reason string
}

func (e *CauseFieldError) Error() string {
	return fmt.Sprintf("cause %d: %s %s", e.Index+1, e.Field, e.Reason)
}

func (e *CauseFieldError) Unwrap() error { return ErrInvalidCause }

// LockReason distinguishes why an hour rejects edits.
type LockReason string

const (
	// ReasonAwaitingCauses: the prior hour has production recorded but an
	// unreconciled negative delta.
	ReasonAwaitingCauses LockReason = "awaiting_causes"

	// ReasonPriorIncomplete: the prior hour has no production recorded yet.
	ReasonPriorIncomplete LockReason = "prior_incomplete"
)

// EditLockedError reports the specific hour and reason for a refused edit.
type EditLockedError struct {
	Hour      string
	PriorHour string
	Reason    LockReason
}

func (e *EditLockedError) Error() string {
	switch e.Reason {
	case ReasonAwaitingCauses:
		return fmt.Sprintf("hour %q is locked: %q has an unallocated shortfall", e.Hour, e.PriorHour)
	default:
		return fmt.Sprintf("hour %q is locked: %q has no production recorded", e.Hour, e.PriorHour)
	}
}

func (e *EditLockedError) Unwrap() error { return ErrEditLocked }

// ShiftIncompleteError carries the full deficiency list from a failed close
// attempt. Validation never short-circuits, so Missing covers every hour.
type ShiftIncompleteError struct {
	Missing []MissingReport
}

func (e *ShiftIncompleteError) Error() string {
	hours := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		hours[i] = m.Hour
	}
	return fmt.Sprintf("shift incomplete: missing data for %s", strings.Join(hours, ", "))
}

func (e *ShiftIncompleteError) Unwrap() error { return ErrShiftIncomplete }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true when the error is a recoverable user-input
// condition, as opposed to a store failure bubbling through.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAdjustment) ||
		errors.Is(err, ErrCauseAllocationMismatch) ||
		errors.Is(err, ErrInvalidCause) ||
		errors.Is(err, ErrDuplicateOvertimeHour) ||
		errors.Is(err, ErrEditLocked) ||
		errors.Is(err, ErrShiftIncomplete) ||
		errors.Is(err, ErrEntryImmutable) ||
		errors.Is(err, ErrUnknownHour) ||
		errors.Is(err, ErrUnknownStop) ||
		errors.Is(err, ErrInvalidEdit)
}
