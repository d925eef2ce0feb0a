package app

import (
	"fmt"
	"regexp"
	"time"
)

// All times in the booking core are trainer-local wall-clock values: dates as
// "YYYY-MM-DD" strings and times of day as minutes since midnight. Nothing is
// converted between timezones.

const isoDate = "2006-01-02"

var hhmmRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2}(?:\.\d+)?)?$`)

// ParseHHMM parses "H:MM" or "HH:MM" (trailing seconds tolerated) into minutes
// since midnight.
func ParseHHMM(s string) (int, error) {
	m := hhmmRe.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Input: s, Want: "HH:MM"}
	}
	var h, min int
	fmt.Sscanf(m[1], "%d", &h)
	fmt.Sscanf(m[2], "%d", &min)
	if h > 23 || min > 59 {
		return 0, &ParseError{Input: s, Want: "HH:MM"}
	}
	return h*60 + min, nil
}

// FormatHHMM is the inverse of ParseHHMM.
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ToISODate renders the local calendar date of t.
func ToISODate(t time.Time) string {
	return t.Format(isoDate)
}

// ParseISODate parses "YYYY-MM-DD".
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Want: "YYYY-MM-DD"}
	}
	return t, nil
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) share any instant. Touching endpoints do not overlap: a
// booking ending at 10:00 does not conflict with one starting at 10:00.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// WithinDay reports whether ISO date day falls inside the inclusive range
// [from, to]. Lexicographic comparison is exact for "YYYY-MM-DD".
func WithinDay(day, from, to string) bool {
	return day >= from && day <= to
}

// Period buckets a window by its start time for display filtering.
type Period string

const (
	PeriodAny       Period = ""
	PeriodMorning   Period = "morning"   // start < 12:00
	PeriodAfternoon Period = "afternoon" // 12:00 <= start < 18:00
	PeriodNight     Period = "night"     // start >= 18:00
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodAny, PeriodMorning, PeriodAfternoon, PeriodNight:
		return Period(s), nil
	}
	return PeriodAny, &ValidationError{Msg: fmt.Sprintf("unknown period %q", s)}
}

func (p Period) matches(startMin int) bool {
	switch p {
	case PeriodMorning:
		return startMin < 12*60
	case PeriodAfternoon:
		return startMin >= 12*60 && startMin < 18*60
	case PeriodNight:
		return startMin >= 18*60
	default:
		return true
	}
}
