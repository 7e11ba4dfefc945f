package core

import (
	"fmt"
	"time"
)

// Mode selects the time window a FilterSpec covers.
type Mode string

const (
	ModeDay         Mode = "day"
	ModeWeek        Mode = "week"
	ModeMonth       Mode = "month"
	ModeHalfYear    Mode = "half-year"
	ModeYear        Mode = "year"
	ModeCustomMonth Mode = "custom-month"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDay, ModeWeek, ModeMonth, ModeHalfYear, ModeYear, ModeCustomMonth:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown filter mode %q", ErrValidation, s)
}

// FilterSpec is a transient time-window selection request. Anchor is the
// reference instant (injected, never read from the wall clock here); Month
// and Year are only consulted in custom-month mode.
type FilterSpec struct {
	Mode   Mode
	Anchor time.Time
	Month  time.Month
	Year   int
}

// Window computes the half-open interval [start, end) the spec covers, in
// UTC. The exact boundaries per mode:
//
//	day          the anchor's calendar day
//	week         the 7 days ending at the anchor, with the boundary day kept
//	             (legacy diff-days rule: an entry up to 7 whole days old is
//	             still inside, so the interval spans 8 calendar days)
//	month        the anchor's full calendar month
//	custom-month the explicit Year/Month's full calendar month
//	half-year    the 6 calendar months ending at the anchor's month
//	year         the 365 days ending at the anchor (duration-based, not a
//	             calendar year)
func (s FilterSpec) Window() (start, end time.Time) {
	anchor := s.Anchor.UTC()
	dayStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	switch s.Mode {
	case ModeDay:
		return dayStart, dayEnd
	case ModeWeek:
		return dayStart.AddDate(0, 0, -7), dayEnd
	case ModeMonth:
		start = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	case ModeCustomMonth:
		start = time.Date(s.Year, s.Month, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	case ModeHalfYear:
		end = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return end.AddDate(0, -6, 0), end
	case ModeYear:
		return dayEnd.AddDate(0, 0, -365), dayEnd
	}
	// Unknown modes select nothing.
	return time.Time{}, time.Time{}
}

// Select returns the entries whose applicable date falls inside the spec's
// window. Entries without a usable date are excluded, never an error;
// filtering is deterministic for fixed inputs.
func Select(entries []Entry, spec FilterSpec) []Entry {
	start, end := spec.Window()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		d, ok := e.ApplicableDate()
		if !ok {
			continue
		}
		if d.Before(start) || !d.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}
