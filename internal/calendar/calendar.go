// Package calendar holds the date handling shared by the priority and ordering rules.
//
// Dates are calendar days without a time of day, stored as "YYYY-MM-DD" strings and
// compared at local midnight. A single Today value is taken from the injected Clock per
// evaluation pass.
package calendar

import (
	"strings"
	"time"
)

const Layout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// Today strips the time of day from the clock's current instant.
func Today(c Clock) time.Time {
	return Midnight(c.Now())
}

func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Parse reads a calendar date at midnight in loc. Empty or malformed input reports
// ok=false instead of an error.
func Parse(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(Layout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// IsVisible reports whether a task scheduled for scheduledDate shows on the board today.
// Absent and unparseable dates are visible.
func IsVisible(scheduledDate string, today time.Time) bool {
	scheduled, ok := Parse(scheduledDate, today.Location())
	if !ok {
		return true
	}
	return !scheduled.After(today)
}
