/*
hours.go - 12-hour clock hour labels

PURPOSE:
  Hour labels like "06:00 a.m. - 07:00 a.m." are the ordering key of the
  board. This file owns their generation, parsing, and the increment used
  to append overtime hours, including the AM/PM rollover at the 12 o'clock
  boundary ("11:00 p.m. - 12:00 a.m." -> "12:00 a.m. - 01:00 a.m.").

FORMAT:
  <hh>:00 <a.m.|p.m.> - <hh>:00 <a.m.|p.m.>
  Hours are fixed-width slots; minutes are always ":00".

SEE ALSO:
  - types.go: Shift.HourRanges uses FormatHourRange
  - ledger.go: AddOvertimeHour uses NextHourRange
*/
package board

import (
	"fmt"
	"strconv"
	"strings"
)

const hourRangeSeparator = " - "

// FormatClock renders a 24-hour clock hour as a 12-hour label, e.g.
// 0 -> "12:00 a.m.", 13 -> "01:00 p.m.".
func FormatClock(hour24 int) string {
	hour24 = ((hour24 % 24) + 24) % 24
	meridiem := "a.m."
	if hour24 >= 12 {
		meridiem = "p.m."
	}
	h := hour24 % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:00 %s", h, meridiem)
}

// FormatHourRange renders the label of the slot starting at hour24.
func FormatHourRange(hour24 int) string {
	return FormatClock(hour24) + hourRangeSeparator + FormatClock(hour24+1)
}

// ParseClock parses a 12-hour clock label back to a 24-hour clock hour.
func ParseClock(label string) (int, error) {
	s := strings.TrimSpace(label)
	colon := strings.Index(s, ":")
	if colon < 1 {
		return 0, fmt.Errorf("malformed clock label %q", label)
	}
	h, err := strconv.Atoi(s[:colon])
	if err != nil || h < 1 || h > 12 {
		return 0, fmt.Errorf("malformed clock hour in %q", label)
	}
	switch {
	case strings.HasSuffix(s, "a.m."):
		if h == 12 {
			h = 0
		}
	case strings.HasSuffix(s, "p.m."):
		if h != 12 {
			h += 12
		}
	default:
		return 0, fmt.Errorf("missing meridiem in %q", label)
	}
	return h, nil
}

// ParseHourRange returns the 24-hour start and end of an hour label.
func ParseHourRange(label string) (start, end int, err error) {
	parts := strings.Split(label, hourRangeSeparator)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed hour range %q", label)
	}
	if start, err = ParseClock(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(parts[1]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// NextHourRange computes the contiguous label after `last`: the end of the
// last slot becomes the start of the next, with AM/PM rollover handled by
// the 24-hour round trip.
func NextHourRange(last string) (string, error) {
	_, end, err := ParseHourRange(last)
	if err != nil {
		return "", err
	}
	return FormatHourRange(end), nil
}
