/*
target.go - Hourly target computation and the derived-value pipeline

PURPOSE:
  Computes the expected units per hour for an entry from the rate table,
  then derives delta and downtime from it. This is the only place targets
  are ever produced; ProductionEntry.HourlyTarget is never user-entered.

COMPUTATION:
  1. Look up the part number's head-count buckets for the shift
  2. Pick the bucket matching the real head count (exact, else nearest;
     ties resolve to the lower head count)
  3. Scale the bucket rate by availableMinutes/60 for partial hours
  4. Apply the entry's cumulative adjustment factor
  5. Round to a whole unit count

  Missing part number or head count is the normal empty state, not an
  error: the target is simply 0 until both are set.

FALLBACK:
  Part numbers without a bucket table fall back to the labor standard
  (units per person-hour), multiplied by the head count.

PRECISION:
  All intermediate math is decimal.Decimal; float drift on a scaled rate
  would leak into delta and downtime.

SEE ALSO:
  - types.go: RateSource interface
  - adjustment.go: where the adjustment factor comes from
*/
package board

import "github.com/shopspring/decimal"

var (
	sixty      = decimal.NewFromInt(60)
	oneHundred = decimal.NewFromInt(100)
)

// TargetCalculator computes hourly targets from a read-only rate table.
// It is pure: same inputs, same output, no side effects.
type TargetCalculator struct {
	Rates RateSource
}

func NewTargetCalculator(rates RateSource) TargetCalculator {
	return TargetCalculator{Rates: rates}
}

// ComputeTarget returns the expected units for one hour. Zero when the
// part number or head count is not set, when the part is unknown to both
// the bucket table and the labor standards, or when no time is available.
func (c TargetCalculator) ComputeTarget(partNumber, shiftID string, availableMinutes int, headCount *int) int {
	base := c.baseRate(partNumber, shiftID, headCount)
	if base.IsZero() || availableMinutes <= 0 {
		return 0
	}
	scaled := base.Mul(decimal.NewFromInt(int64(availableMinutes))).Div(sixty)
	return int(scaled.Round(0).IntPart())
}

func (c TargetCalculator) baseRate(partNumber, shiftID string, headCount *int) decimal.Decimal {
	if partNumber == "" || headCount == nil {
		return decimal.Zero
	}
	buckets := c.Rates.Rates(partNumber, shiftID)
	if len(buckets) == 0 {
		if std, ok := c.Rates.LaborStandard(partNumber); ok {
			return std.Mul(decimal.NewFromInt(int64(*headCount)))
		}
		return decimal.Zero
	}
	return nearestBucket(buckets, *headCount).Rate
}

// nearestBucket selects the bucket for a head count: exact match first,
// otherwise nearest by absolute distance with ties going to the lower
// head count (the conservative target).
func nearestBucket(buckets []RateBucket, headCount int) RateBucket {
	best := buckets[0]
	bestDist := distance(best.HeadCount, headCount)
	for _, b := range buckets[1:] {
		d := distance(b.HeadCount, headCount)
		if d < bestDist || (d == bestDist && b.HeadCount < best.HeadCount) {
			best, bestDist = b, d
		}
	}
	return best
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// Recompute runs the full derived-value pipeline on an entry: base target
// from the rate table, adjustment factor, then delta and downtime. It must
// complete before the next operation is accepted; every ledger transition
// that touches a target input calls it synchronously.
func (c TargetCalculator) Recompute(e *ProductionEntry, shiftID string) {
	base := c.ComputeTarget(e.PartNumber, shiftID, e.AvailableTime, e.RealHeadCount)
	e.HourlyTarget = adjustedTarget(base, e.adjustmentFactor())
	RecomputeDerived(e)
}

func adjustedTarget(base int, factor decimal.Decimal) int {
	if base == 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(base)).Mul(factor).Round(0).IntPart())
}

// RecomputeDerived refreshes delta and downtime from production and target.
// Delta is defined iff production is present; downtime is 0 whenever
// delta >= 0 or the target is 0.
func RecomputeDerived(e *ProductionEntry) {
	if e.DailyProduction == nil {
		e.Delta = nil
		e.Downtime = 0
		return
	}
	delta := *e.DailyProduction - e.HourlyTarget
	e.Delta = &delta
	e.Downtime = DowntimeMinutes(delta, e.HourlyTarget)
}

// DowntimeMinutes estimates the minutes of lost production implied by a
// negative delta: round(|delta| * 60 / target). Zero target short-circuits
// to 0 to avoid division errors.
func DowntimeMinutes(delta, hourlyTarget int) int {
	if delta >= 0 || hourlyTarget == 0 {
		return 0
	}
	lost := decimal.NewFromInt(int64(-delta)).Mul(sixty).Div(decimal.NewFromInt(int64(hourlyTarget)))
	return int(lost.Round(0).IntPart())
}
