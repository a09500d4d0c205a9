/*
adjustment.go - Supervisor target corrections

PURPOSE:
  Validates supervisor-entered percentage corrections and applies them to
  one hour or to the whole shift. Every applied correction is recorded on
  the affected entries and appended to a shift-level audit log that is
  never mutated afterwards.

SEMANTICS:
  newTarget = round(existingTarget * (1 - percentage/100))

  An entry also accumulates the correction into its AdjustmentFactor so a
  later recompute (head-count change, stop preset) re-applies every
  correction on top of the fresh base rate instead of losing them.

SUPPORT ADJUSTMENTS:
  Support staffing snapshots are validated here too, but they are
  independent of production entries: stored for reporting, never applied
  to any target.

SEE ALSO:
  - ledger.go: ApplyTargetAdjustment transition
  - errors.go: InvalidAdjustmentError
*/
package board

import (
	"github.com/shopspring/decimal"
)

// ValidateAdjustment checks a correction before any mutation happens.
// Percentage must be a number in [0,100]; factor type and description are
// required; single-hour scope requires an hour label.
func ValidateAdjustment(adj TargetAdjustment) error {
	if adj.Percentage.IsNegative() || adj.Percentage.GreaterThan(oneHundred) {
		return &InvalidAdjustmentError{Field: "percentage", Reason: "must be between 0 and 100"}
	}
	if adj.FactorType == "" {
		return &InvalidAdjustmentError{Field: "factorType", Reason: "is required"}
	}
	if adj.Description == "" {
		return &InvalidAdjustmentError{Field: "description", Reason: "is required"}
	}
	switch adj.Scope {
	case ScopeShift:
	case ScopeSingle:
		if adj.Hour == "" {
			return &InvalidAdjustmentError{Field: "hour", Reason: "is required for single-hour scope"}
		}
	default:
		return &InvalidAdjustmentError{Field: "scope", Reason: "must be \"shift\" or \"single\""}
	}
	return nil
}

// reductionFactor converts a percentage reduction to its multiplier,
// e.g. 25 -> 0.75.
func reductionFactor(percentage decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(percentage.Div(oneHundred))
}

// applyAdjustmentTo records the correction on an entry and refreshes its
// derived values. The target moves to round(existing * (1 - p/100)); the
// cumulative factor keeps the correction alive across recomputes.
func applyAdjustmentTo(e *ProductionEntry, adj TargetAdjustment) {
	factor := reductionFactor(adj.Percentage)
	e.HourlyTarget = adjustedTarget(e.HourlyTarget, factor)
	e.AdjustmentFactor = e.adjustmentFactor().Mul(factor)
	applied := adj
	e.TargetAdjustment = &applied
	RecomputeDerived(e)
}

// ValidateSupportAdjustment checks a support staffing snapshot. Values are
// head counts per position; negatives are rejected, empty snapshots are not
// (clearing support staffing is a valid state).
func ValidateSupportAdjustment(sa SupportAdjustment) error {
	for _, p := range sa.Positions {
		if p.PositionID == "" {
			return &InvalidAdjustmentError{Field: "positionId", Reason: "is required"}
		}
		if p.Value < 0 {
			return &InvalidAdjustmentError{Field: "value", Reason: "must not be negative"}
		}
	}
	return nil
}
