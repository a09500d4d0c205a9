package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linetrack/production-board/board"
	"github.com/linetrack/production-board/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intp(v int) *int { return &v }

func sampleEntries(now time.Time) []board.ProductionEntry {
	return []board.ProductionEntry{
		{
			ID:              board.NewEntryID("06:00 a.m. - 07:00 a.m.", now, false),
			Hour:            "06:00 a.m. - 07:00 a.m.",
			RealHeadCount:   intp(6),
			ProgrammedStop:  board.NoStop,
			AvailableTime:   60,
			WorkOrder:       "WO-100",
			PartNumber:      "PN-1042",
			HourlyTarget:    130,
			DailyProduction: intp(110),
			Causes: []board.CauseEntry{
				{TypeCause: "Equipment", GeneralCause: "Breakdown", SpecificCause: "Conveyor jam", Units: intp(20)},
			},
			RegisteredAt: now,
		},
		{
			ID:             board.NewEntryID("07:00 a.m. - 08:00 a.m.", now, false),
			Hour:           "07:00 a.m. - 08:00 a.m.",
			ProgrammedStop: board.NoStop,
			AvailableTime:  60,
			RegisteredAt:   now,
		},
	}
}

func TestSaveAndLoadEntries(t *testing.T) {
	// GIVEN a store with a saved shift snapshot
	s := newTestStore(t)
	ctx := context.Background()
	key := board.NewShiftKey("2025-03-10", "first")
	now := time.Date(2025, 3, 10, 6, 45, 0, 0, time.UTC)

	require.NoError(t, s.SaveEntries(ctx, key, sampleEntries(now)))

	// WHEN loading it back
	loaded, err := s.LoadEntries(ctx, key)
	require.NoError(t, err)

	// THEN every field round-trips and derived values are rebuilt
	require.Len(t, loaded, 2)
	first := loaded[0]
	assert.Equal(t, "06:00 a.m. - 07:00 a.m.", first.Hour)
	assert.Equal(t, 6, *first.RealHeadCount)
	assert.Equal(t, "WO-100", first.WorkOrder)
	assert.Equal(t, "PN-1042", first.PartNumber)
	assert.Equal(t, 130, first.HourlyTarget)
	assert.Equal(t, 110, *first.DailyProduction)
	require.NotNil(t, first.Delta)
	assert.Equal(t, -20, *first.Delta)
	require.Len(t, first.Causes, 1)
	assert.Equal(t, "Conveyor jam", first.Causes[0].SpecificCause)
	assert.Equal(t, 20, *first.Causes[0].Units)

	second := loaded[1]
	assert.Nil(t, second.RealHeadCount)
	assert.Nil(t, second.DailyProduction)
	assert.Nil(t, second.Delta)
	assert.Empty(t, second.Causes)
}

func TestSaveEntriesReplacesSnapshot(t *testing.T) {
	// GIVEN a stored snapshot
	s := newTestStore(t)
	ctx := context.Background()
	key := board.NewShiftKey("2025-03-10", "first")
	now := time.Date(2025, 3, 10, 6, 45, 0, 0, time.UTC)
	require.NoError(t, s.SaveEntries(ctx, key, sampleEntries(now)))

	// WHEN saving a smaller snapshot for the same shift
	replacement := sampleEntries(now)[:1]
	replacement[0].WorkOrder = "WO-200"
	require.NoError(t, s.SaveEntries(ctx, key, replacement))

	// THEN the old rows are gone, not merged
	loaded, err := s.LoadEntries(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "WO-200", loaded[0].WorkOrder)
}

func TestSnapshotsIsolatedByShiftKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 6, 45, 0, 0, time.UTC)

	keyA := board.NewShiftKey("2025-03-10", "first")
	keyB := board.NewShiftKey("2025-03-10", "second")
	require.NoError(t, s.SaveEntries(ctx, keyA, sampleEntries(now)))

	loaded, err := s.LoadEntries(ctx, keyB)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestAdjustmentFactorRoundTrips(t *testing.T) {
	// GIVEN an entry carrying a cumulative adjustment factor and its audit record
	s := newTestStore(t)
	ctx := context.Background()
	key := board.NewShiftKey("2025-03-10", "first")
	now := time.Date(2025, 3, 10, 6, 45, 0, 0, time.UTC)

	entries := sampleEntries(now)[:1]
	entries[0].AdjustmentFactor = decimal.RequireFromString("0.5")
	entries[0].TargetAdjustment = &board.TargetAdjustment{
		ID:          "adj-1",
		FactorType:  "line-trial",
		Description: "engineering trial on station 4",
		Percentage:  decimal.RequireFromString("50"),
		Scope:       board.ScopeSingle,
		Hour:        "06:00 a.m. - 07:00 a.m.",
		AppliedAt:   now,
	}
	require.NoError(t, s.SaveEntries(ctx, key, entries))

	loaded, err := s.LoadEntries(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, loaded[0].AdjustmentFactor.Equal(decimal.RequireFromString("0.5")))
	require.NotNil(t, loaded[0].TargetAdjustment)
	assert.Equal(t, "adj-1", loaded[0].TargetAdjustment.ID)
	assert.True(t, loaded[0].TargetAdjustment.Percentage.Equal(decimal.RequireFromString("50")))
}

func TestAdjustmentLogIsAppendOnlyAndOrdered(t *testing.T) {
	// GIVEN two adjustments appended to the same shift
	s := newTestStore(t)
	ctx := context.Background()
	key := board.NewShiftKey("2025-03-10", "first")
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	first := board.TargetAdjustment{
		ID: "adj-1", FactorType: "line-trial", Description: "trial",
		Percentage: decimal.RequireFromString("20"), Scope: board.ScopeShift,
		AppliedBy: "sup-1", AppliedAt: now,
	}
	second := board.TargetAdjustment{
		ID: "adj-2", FactorType: "training", Description: "new operator on line",
		Percentage: decimal.RequireFromString("25"), Scope: board.ScopeSingle,
		Hour: "08:00 a.m. - 09:00 a.m.", AppliedBy: "sup-1", AppliedAt: now.Add(time.Hour),
	}
	require.NoError(t, s.AppendAdjustment(ctx, key, first))
	require.NoError(t, s.AppendAdjustment(ctx, key, second))

	// WHEN listing
	log, err := s.ListAdjustments(ctx, key)
	require.NoError(t, err)

	// THEN both records come back in insertion order
	require.Len(t, log, 2)
	assert.Equal(t, "adj-1", log[0].ID)
	assert.Equal(t, "adj-2", log[1].ID)
	assert.Equal(t, board.ScopeSingle, log[1].Scope)
	assert.Equal(t, "08:00 a.m. - 09:00 a.m.", log[1].Hour)
	assert.True(t, log[0].Percentage.Equal(decimal.RequireFromString("20")))
	assert.True(t, log[1].AppliedAt.Equal(now.Add(time.Hour)))
}

func TestSupportAdjustmentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := board.NewShiftKey("2025-03-10", "first")
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

	sa := board.SupportAdjustment{
		ID:    "sup-adj-1",
		Shift: "first",
		Positions: []board.SupportPosition{
			{PositionID: "quality-inspector", Value: 2},
			{PositionID: "material-handler", Value: 1},
		},
		AppliedBy: "sup-1",
		AppliedAt: now,
	}
	require.NoError(t, s.SaveSupportAdjustment(ctx, key, sa))

	loaded, err := s.ListSupportAdjustments(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "sup-adj-1", loaded[0].ID)
	require.Len(t, loaded[0].Positions, 2)
	assert.Equal(t, "quality-inspector", loaded[0].Positions[0].PositionID)
	assert.Equal(t, 2, loaded[0].Positions[0].Value)
}

func TestEmptyShiftHasNoRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := board.NewShiftKey("2025-03-11", "second")

	entries, err := s.LoadEntries(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, entries)

	log, err := s.ListAdjustments(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, log)

	support, err := s.ListSupportAdjustments(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, support)
}
