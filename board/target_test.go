package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linetrack/production-board/board"
	"github.com/linetrack/production-board/catalog"
)

func intp(v int) *int { return &v }

func newCalc() board.TargetCalculator {
	return board.NewTargetCalculator(catalog.Default().Rates)
}

// =============================================================================
// TARGET PURITY
// =============================================================================

func TestComputeTarget_Pure(t *testing.T) {
	// Same inputs must always produce the same target.
	calc := newCalc()
	first := calc.ComputeTarget("PN-1042", "first", 60, intp(6))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, calc.ComputeTarget("PN-1042", "first", 60, intp(6)))
	}
	assert.Equal(t, 130, first)
}

func TestComputeTarget_EmptyStateIsZero(t *testing.T) {
	// Missing part number or head count is the expected empty state, not
	// an error.
	calc := newCalc()
	assert.Zero(t, calc.ComputeTarget("", "first", 60, intp(6)))
	assert.Zero(t, calc.ComputeTarget("PN-1042", "first", 60, nil))
	assert.Zero(t, calc.ComputeTarget("PN-unknown", "first", 60, intp(6)))
}

func TestComputeTarget_ZeroAvailableMinutes(t *testing.T) {
	calc := newCalc()
	assert.Zero(t, calc.ComputeTarget("PN-1042", "first", 0, intp(6)))
}

func TestComputeTarget_ScalesByAvailableTime(t *testing.T) {
	// GIVEN: bucket rate 130 units/hour
	// WHEN: only 30 minutes are available
	// THEN: the target halves
	calc := newCalc()
	assert.Equal(t, 65, calc.ComputeTarget("PN-1042", "first", 30, intp(6)))
}

func TestComputeTarget_NearestBucket(t *testing.T) {
	calc := newCalc()

	// Exact match wins.
	assert.Equal(t, 95, calc.ComputeTarget("PN-1042", "first", 60, intp(4)))

	// Head count 7 is nearer to 6 than to 8... equally near; the tie goes
	// to the lower bucket.
	assert.Equal(t, 130, calc.ComputeTarget("PN-1042", "first", 60, intp(7)))

	// Head count 5 ties between 4 and 6; lower bucket wins.
	assert.Equal(t, 95, calc.ComputeTarget("PN-1042", "first", 60, intp(5)))

	// Beyond the highest bucket, the highest is nearest.
	assert.Equal(t, 160, calc.ComputeTarget("PN-1042", "first", 60, intp(12)))
}

func TestComputeTarget_LaborStandardFallback(t *testing.T) {
	// PN-9001 has no bucket table; 12.5 units/person-hour * 4 heads = 50.
	calc := newCalc()
	assert.Equal(t, 50, calc.ComputeTarget("PN-9001", "first", 60, intp(4)))
	assert.Equal(t, 25, calc.ComputeTarget("PN-9001", "first", 30, intp(4)))
}

// =============================================================================
// DELTA/DOWNTIME CONSISTENCY
// =============================================================================

func TestRecomputeDerived_UnmeasuredHour(t *testing.T) {
	e := &board.ProductionEntry{HourlyTarget: 100}
	board.RecomputeDerived(e)

	assert.Nil(t, e.Delta, "delta is undefined until production is entered")
	assert.Zero(t, e.Downtime)
}

func TestRecomputeDerived_NonNegativeDelta(t *testing.T) {
	e := &board.ProductionEntry{HourlyTarget: 100, DailyProduction: intp(110)}
	board.RecomputeDerived(e)

	assert.Equal(t, 10, *e.Delta)
	assert.Zero(t, e.Downtime, "downtime must be 0 when delta >= 0")
}

func TestRecomputeDerived_NegativeDelta(t *testing.T) {
	e := &board.ProductionEntry{HourlyTarget: 100, DailyProduction: intp(80)}
	board.RecomputeDerived(e)

	assert.Equal(t, -20, *e.Delta)
	assert.Equal(t, 12, e.Downtime, "round(20 * 60 / 100)")
}

func TestRecomputeDerived_ZeroTarget(t *testing.T) {
	// hourlyTarget == 0 short-circuits downtime regardless of delta.
	e := &board.ProductionEntry{HourlyTarget: 0, DailyProduction: intp(0)}
	board.RecomputeDerived(e)

	assert.Equal(t, 0, *e.Delta)
	assert.Zero(t, e.Downtime)
}

func TestDowntimeMinutes(t *testing.T) {
	cases := []struct {
		delta, target, want int
	}{
		{-20, 100, 12},
		{-50, 100, 30},
		{-7, 95, 4}, // round(7*60/95) = round(4.42)
		{0, 100, 0},
		{15, 100, 0},
		{-20, 0, 0}, // zero target short-circuit
	}
	for _, c := range cases {
		assert.Equal(t, c.want, board.DowntimeMinutes(c.delta, c.target),
			"delta=%d target=%d", c.delta, c.target)
	}
}
