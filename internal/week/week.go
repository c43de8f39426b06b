// Package week computes Monday-based week windows and the string keys used to
// group time entries per day and per week.
package week

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Range is an inclusive time window. End is the last nanosecond of its day.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Bounds returns the week containing t: Monday 00:00 through Sunday
// 23:59:59.999999999 in t's location.
func Bounds(t time.Time) Range {
	start := startOfDay(t)
	// Sunday belongs to the week that started six days earlier.
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)
	return Range{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
}

// BoundsFromString parses s as yyyy-MM-dd or RFC 3339 and returns its week.
func BoundsFromString(s string) (Range, error) {
	t, err := Parse(s)
	if err != nil {
		return Range{}, err
	}
	return Bounds(t), nil
}

// ID returns the yyyy-MM-dd of the Monday starting t's week.
func ID(t time.Time) string {
	return Bounds(t).Start.Format(DateLayout)
}

func IDFromString(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return ID(t), nil
}

// Day returns the window covering t's calendar day.
func Day(t time.Time) Range {
	start := startOfDay(t)
	return Range{Start: start, End: endOfDay(start)}
}

// Parse accepts a calendar date or an RFC 3339 timestamp and returns UTC
// midnight of the calendar date written in s. Stored entry dates are UTC
// midnight, so the offset of a timestamp must not move the window.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("week: invalid date %q", s)
}

// ParseDate parses a yyyy-MM-dd string into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("week: invalid date %q", s)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
