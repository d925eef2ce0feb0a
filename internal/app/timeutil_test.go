package app

import (
	"errors"
	"testing"
	"time"
)

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"09:00", 540},
		{"9:00", 540},
		{"09:05:30", 545},
		{"09:05:30.000000", 545},
		{"00:00", 0},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := ParseHHMM(tc.in)
		if err != nil {
			t.Fatalf("ParseHHMM(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseHHMM(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseHHMM_Invalid(t *testing.T) {
	for _, in := range []string{"", "nine", "25:00", "09:60", "09", "09:5"} {
		_, err := ParseHHMM(in)
		if err == nil {
			t.Fatalf("ParseHHMM(%q): expected error", in)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("ParseHHMM(%q): expected ParseError, got %T", in, err)
		}
	}
}

func TestFormatHHMM(t *testing.T) {
	if got := FormatHHMM(545); got != "09:05" {
		t.Fatalf("FormatHHMM(545) = %q, want 09:05", got)
	}
	if got := FormatHHMM(0); got != "00:00" {
		t.Fatalf("FormatHHMM(0) = %q, want 00:00", got)
	}
}

func TestOverlaps_Boundary(t *testing.T) {
	nine, ten := 9*60, 10*60
	eleven := 11 * 60

	// Touching endpoints do not overlap.
	if Overlaps(nine, ten, ten, eleven) {
		t.Fatal("09:00-10:00 should not overlap 10:00-11:00")
	}
	if !Overlaps(nine, ten+1, ten, eleven) {
		t.Fatal("09:00-10:01 should overlap 10:00-11:00")
	}
	// Containment overlaps.
	if !Overlaps(nine, eleven, ten, ten+30) {
		t.Fatal("containing interval should overlap")
	}
}

func TestWithinDay(t *testing.T) {
	if !WithinDay("2025-06-20", "2025-06-20", "2025-06-22") {
		t.Fatal("range start should be inclusive")
	}
	if !WithinDay("2025-06-22", "2025-06-20", "2025-06-22") {
		t.Fatal("range end should be inclusive")
	}
	if WithinDay("2025-06-23", "2025-06-20", "2025-06-22") {
		t.Fatal("day after range should be outside")
	}
}

func TestToISODate(t *testing.T) {
	d := time.Date(2025, 6, 20, 15, 4, 5, 0, time.Local)
	if got := ToISODate(d); got != "2025-06-20" {
		t.Fatalf("ToISODate = %q, want 2025-06-20", got)
	}
}

func TestPeriodMatches(t *testing.T) {
	noon, six := 12*60, 18*60
	if !PeriodMorning.matches(noon-1) || PeriodMorning.matches(noon) {
		t.Fatal("morning boundary is start < 12:00")
	}
	if !PeriodAfternoon.matches(noon) || PeriodAfternoon.matches(six) {
		t.Fatal("afternoon boundary is 12:00 <= start < 18:00")
	}
	if !PeriodNight.matches(six) || PeriodNight.matches(six-1) {
		t.Fatal("night boundary is start >= 18:00")
	}
	if !PeriodAny.matches(0) {
		t.Fatal("empty period matches everything")
	}
}

func TestParsePeriod(t *testing.T) {
	if _, err := ParsePeriod("evening"); err == nil {
		t.Fatal("unknown period should be rejected")
	}
	p, err := ParsePeriod("night")
	if err != nil || p != PeriodNight {
		t.Fatalf("ParsePeriod(night) = %v, %v", p, err)
	}
}
