package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linetrack/production-board/board"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		hour24 int
		want   string
	}{
		{0, "12:00 a.m."},
		{1, "01:00 a.m."},
		{6, "06:00 a.m."},
		{11, "11:00 a.m."},
		{12, "12:00 p.m."},
		{13, "01:00 p.m."},
		{23, "11:00 p.m."},
		{24, "12:00 a.m."}, // wraps
	}
	for _, c := range cases {
		assert.Equal(t, c.want, board.FormatClock(c.hour24))
	}
}

func TestParseClock_RoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		got, err := board.ParseClock(board.FormatClock(h))
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
}

func TestParseClock_Malformed(t *testing.T) {
	for _, label := range []string{"", "06:00", "25:00 a.m.", "0:00 a.m.", "six a.m."} {
		_, err := board.ParseClock(label)
		assert.Error(t, err, "label %q should be rejected", label)
	}
}

func TestNextHourRange_Contiguous(t *testing.T) {
	// GIVEN: the last hour of a first shift
	// WHEN: computing the next overtime label
	// THEN: it is the immediately following slot
	next, err := board.NextHourRange("01:00 p.m. - 02:00 p.m.")
	require.NoError(t, err)
	assert.Equal(t, "02:00 p.m. - 03:00 p.m.", next)
}

func TestNextHourRange_MidnightRollover(t *testing.T) {
	// The p.m. -> a.m. boundary at 12 o'clock must roll over correctly.
	next, err := board.NextHourRange("11:00 p.m. - 12:00 a.m.")
	require.NoError(t, err)
	assert.Equal(t, "12:00 a.m. - 01:00 a.m.", next)
}

func TestNextHourRange_NoonRollover(t *testing.T) {
	next, err := board.NextHourRange("11:00 a.m. - 12:00 p.m.")
	require.NoError(t, err)
	assert.Equal(t, "12:00 p.m. - 01:00 p.m.", next)
}

func TestShift_HourRanges(t *testing.T) {
	shift := board.Shift{ID: "first", StartHour: 6, Slots: 8}
	ranges := shift.HourRanges()

	require.Len(t, ranges, 8)
	assert.Equal(t, "06:00 a.m. - 07:00 a.m.", ranges[0])
	assert.Equal(t, "11:00 a.m. - 12:00 p.m.", ranges[5])
	assert.Equal(t, "01:00 p.m. - 02:00 p.m.", ranges[7])
}

func TestShift_HourRanges_CrossesMidnight(t *testing.T) {
	third := board.Shift{ID: "third", StartHour: 22, Slots: 8}
	ranges := third.HourRanges()

	require.Len(t, ranges, 8)
	assert.Equal(t, "10:00 p.m. - 11:00 p.m.", ranges[0])
	assert.Equal(t, "11:00 p.m. - 12:00 a.m.", ranges[1])
	assert.Equal(t, "12:00 a.m. - 01:00 a.m.", ranges[2])
	assert.Equal(t, "05:00 a.m. - 06:00 a.m.", ranges[7])
}
