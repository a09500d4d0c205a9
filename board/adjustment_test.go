package board_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linetrack/production-board/board"
)

func adjustment(pct int64, scope board.AdjustmentScope, hour string) board.TargetAdjustment {
	return board.TargetAdjustment{
		ID:          "adj-1",
		FactorType:  "ramp-up",
		Description: "new operator on the line",
		Percentage:  decimal.NewFromInt(pct),
		Scope:       scope,
		Hour:        hour,
		AppliedBy:   "supervisor-3",
		AppliedAt:   time.Now(),
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidateAdjustment(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*board.TargetAdjustment)
		field  string
	}{
		{"negative percentage", func(a *board.TargetAdjustment) { a.Percentage = decimal.NewFromInt(-1) }, "percentage"},
		{"percentage over 100", func(a *board.TargetAdjustment) { a.Percentage = decimal.NewFromInt(101) }, "percentage"},
		{"empty factor type", func(a *board.TargetAdjustment) { a.FactorType = "" }, "factorType"},
		{"empty description", func(a *board.TargetAdjustment) { a.Description = "" }, "description"},
		{"bad scope", func(a *board.TargetAdjustment) { a.Scope = "global" }, "scope"},
		{"single without hour", func(a *board.TargetAdjustment) { a.Scope = board.ScopeSingle; a.Hour = "" }, "hour"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			adj := adjustment(25, board.ScopeShift, "")
			c.mutate(&adj)

			err := board.ValidateAdjustment(adj)
			require.Error(t, err)
			assert.ErrorIs(t, err, board.ErrInvalidAdjustment)

			var invalid *board.InvalidAdjustmentError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, c.field, invalid.Field)
		})
	}

	assert.NoError(t, board.ValidateAdjustment(adjustment(0, board.ScopeShift, "")))
	assert.NoError(t, board.ValidateAdjustment(adjustment(100, board.ScopeShift, "")))
}

// =============================================================================
// APPLICATION
// =============================================================================

func TestApplyTargetAdjustment_SingleScope(t *testing.T) {
	// A single-scope adjustment must never touch any other hour's target.
	l := newFlatLedger(t, board.Shift{ID: "first", StartHour: 6, Slots: 8}, 100)
	h1, h2 := l.HourRanges[0], l.HourRanges[1]
	l = setUp(t, l, h1, "PN-X", 4)
	l = setUp(t, l, h2, "PN-X", 4)

	next, err := l.ApplyTargetAdjustment(adjustment(25, board.ScopeSingle, h1))
	require.NoError(t, err)

	assert.Equal(t, 75, next.Entry(h1).HourlyTarget, "round(100 * 0.75)")
	assert.Equal(t, 100, next.Entry(h2).HourlyTarget, "other hours untouched")
	require.NotNil(t, next.Entry(h1).TargetAdjustment)
	assert.Equal(t, "adj-1", next.Entry(h1).TargetAdjustment.ID)
	assert.Nil(t, next.Entry(h2).TargetAdjustment)
}

func TestApplyTargetAdjustment_ShiftScope(t *testing.T) {
	l := newFlatLedger(t, board.Shift{ID: "first", StartHour: 6, Slots: 8}, 100)
	h1, h2 := l.HourRanges[0], l.HourRanges[1]
	l = setUp(t, l, h1, "PN-X", 4)
	l = setUp(t, l, h2, "PN-X", 4)

	next, err := l.ApplyTargetAdjustment(adjustment(50, board.ScopeShift, ""))
	require.NoError(t, err)

	assert.Equal(t, 50, next.Entry(h1).HourlyTarget)
	assert.Equal(t, 50, next.Entry(h2).HourlyTarget)
}

func TestApplyTargetAdjustment_RecomputesDerivedValues(t *testing.T) {
	// GIVEN: an hour that met its original target
	// WHEN: the target is corrected downward after production was entered
	// THEN: delta and downtime follow the corrected target
	l := newFlatLedger(t, board.Shift{ID: "first", StartHour: 6, Slots: 8}, 100)
	h1 := l.HourRanges[0]
	l = setUp(t, l, h1, "PN-X", 4)
	l = mustApply(t, l, board.EditIntent{Kind: board.EditSetProduction, Hour: h1, IntValue: intp(60)})
	require.Equal(t, -40, *l.Entry(h1).Delta)

	next, err := l.ApplyTargetAdjustment(adjustment(50, board.ScopeSingle, h1))
	require.NoError(t, err)

	e := next.Entry(h1)
	assert.Equal(t, 50, e.HourlyTarget)
	assert.Equal(t, 10, *e.Delta)
	assert.Zero(t, e.Downtime)
}

func TestApplyTargetAdjustment_SurvivesRecompute(t *testing.T) {
	// A later head-count edit recomputes the base target; the recorded
	// correction factor must still apply on top of the fresh base.
	l := newFlatLedger(t, board.Shift{ID: "first", StartHour: 6, Slots: 8}, 100)
	h1 := l.HourRanges[0]
	l = setUp(t, l, h1, "PN-X", 4)

	l, err := l.ApplyTargetAdjustment(adjustment(50, board.ScopeSingle, h1))
	require.NoError(t, err)
	require.Equal(t, 50, l.Entry(h1).HourlyTarget)

	// Same flat rate for any head count; recompute must re-apply the 50%.
	l = mustApply(t, l, board.EditIntent{Kind: board.EditSetHeadCount, Hour: h1, IntValue: intp(8)})
	assert.Equal(t, 50, l.Entry(h1).HourlyTarget)
}

func TestApplyTargetAdjustment_Stacks(t *testing.T) {
	l := newFlatLedger(t, board.Shift{ID: "first", StartHour: 6, Slots: 8}, 100)
	h1 := l.HourRanges[0]
	l = setUp(t, l, h1, "PN-X", 4)

	l, err := l.ApplyTargetAdjustment(adjustment(20, board.ScopeSingle, h1))
	require.NoError(t, err)
	assert.Equal(t, 80, l.Entry(h1).HourlyTarget)

	l, err = l.ApplyTargetAdjustment(adjustment(25, board.ScopeSingle, h1))
	require.NoError(t, err)
	assert.Equal(t, 60, l.Entry(h1).HourlyTarget, "round(80 * 0.75), applied to the existing target")
}

func TestApplyTargetAdjustment_UnknownHour(t *testing.T) {
	l := newTestLedger(t, "first")
	_, err := l.ApplyTargetAdjustment(adjustment(10, board.ScopeSingle, "03:00 a.m. - 04:00 a.m."))
	assert.ErrorIs(t, err, board.ErrUnknownHour)
}

// =============================================================================
// SUPPORT ADJUSTMENTS
// =============================================================================

func TestValidateSupportAdjustment(t *testing.T) {
	ok := board.SupportAdjustment{
		Shift: "first",
		Positions: []board.SupportPosition{
			{PositionID: "quality-inspector", Value: 2},
			{PositionID: "material-handler", Value: 1},
		},
	}
	assert.NoError(t, board.ValidateSupportAdjustment(ok))

	missing := board.SupportAdjustment{Positions: []board.SupportPosition{{Value: 1}}}
	assert.ErrorIs(t, board.ValidateSupportAdjustment(missing), board.ErrInvalidAdjustment)

	negative := board.SupportAdjustment{Positions: []board.SupportPosition{{PositionID: "p", Value: -1}}}
	assert.ErrorIs(t, board.ValidateSupportAdjustment(negative), board.ErrInvalidAdjustment)
}

func TestSupportAdjustment_DoesNotTouchTargets(t *testing.T) {
	// Support staffing is a reporting snapshot; targets never move.
	l := newFlatLedger(t, board.Shift{ID: "first", StartHour: 6, Slots: 8}, 100)
	h1 := l.HourRanges[0]
	l = setUp(t, l, h1, "PN-X", 4)
	before := l.Entry(h1).HourlyTarget

	sa := board.SupportAdjustment{
		Shift:     "first",
		Positions: []board.SupportPosition{{PositionID: "quality-inspector", Value: 2}},
	}
	require.NoError(t, board.ValidateSupportAdjustment(sa))

	assert.Equal(t, before, l.Entry(h1).HourlyTarget)
}
