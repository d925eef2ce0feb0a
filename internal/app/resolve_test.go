package app

import (
	"testing"
	"time"
)

func day(t *testing.T, iso string) time.Time {
	t.Helper()
	d, err := ParseISODate(iso)
	if err != nil {
		t.Fatalf("bad test date %q: %v", iso, err)
	}
	return d
}

// 2025-06-16 is a Monday.
func mondayRules(trainerID string) []AvailabilityRule {
	return []AvailabilityRule{
		{TrainerID: trainerID, Weekday: 1, StartTime: "09:00", EndTime: "10:00"},
		{TrainerID: trainerID, Weekday: 1, StartTime: "14:00", EndTime: "15:00", IsOnline: true},
	}
}

func TestResolveWindows_WeekdayExpansion(t *testing.T) {
	from, to := day(t, "2025-06-16"), day(t, "2025-06-22")
	windows, err := ResolveWindows(mondayRules("t1"), nil, from, to)
	if err != nil {
		t.Fatalf("ResolveWindows: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows (one Monday in range, two rules), got %d", len(windows))
	}
	for _, w := range windows {
		if w.Date != "2025-06-16" {
			t.Fatalf("window on %s, want 2025-06-16", w.Date)
		}
		if w.Source != SourceDerived {
			t.Fatalf("window source = %s, want derived", w.Source)
		}
	}
	if windows[0].StartTime != "09:00" || windows[1].StartTime != "14:00" {
		t.Fatalf("windows not sorted by start: %s, %s", windows[0].StartTime, windows[1].StartTime)
	}
	if windows[0].IsOnline || !windows[1].IsOnline {
		t.Fatal("is_online not carried through from rules")
	}
}

func TestResolveWindows_HolidayExcludesDay(t *testing.T) {
	from, to := day(t, "2025-06-16"), day(t, "2025-06-30")
	holidays := []Holiday{{TrainerID: "t1", StartsOn: "2025-06-23", EndsOn: "2025-06-23"}}

	windows, err := ResolveWindows(mondayRules("t1"), holidays, from, to)
	if err != nil {
		t.Fatalf("ResolveWindows: %v", err)
	}
	// Mondays in range: 16th, 23rd (holiday), 30th.
	for _, w := range windows {
		if w.Date == "2025-06-23" {
			t.Fatal("holiday day produced windows")
		}
	}
	if len(windows) != 4 {
		t.Fatalf("expected 4 windows (2 rules x 2 non-holiday Mondays), got %d", len(windows))
	}
}

func TestResolveWindows_HolidayRangeInclusive(t *testing.T) {
	from, to := day(t, "2025-06-16"), day(t, "2025-06-30")
	holidays := []Holiday{{StartsOn: "2025-06-16", EndsOn: "2025-06-30", Reason: "summer break"}}

	windows, err := ResolveWindows(mondayRules("t1"), holidays, from, to)
	if err != nil {
		t.Fatalf("ResolveWindows: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("expected zero windows across full holiday range, got %d", len(windows))
	}
}

func TestResolveWindows_OverlappingRulesNotMerged(t *testing.T) {
	rules := []AvailabilityRule{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: 1, StartTime: "10:00", EndTime: "13:00"},
	}
	windows, err := ResolveWindows(rules, nil, day(t, "2025-06-16"), day(t, "2025-06-16"))
	if err != nil {
		t.Fatalf("ResolveWindows: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("overlapping rules must be kept distinct, got %d windows", len(windows))
	}
}

func TestResolveWindows_EmptyRules(t *testing.T) {
	windows, err := ResolveWindows(nil, nil, day(t, "2025-06-16"), day(t, "2025-06-22"))
	if err != nil {
		t.Fatalf("ResolveWindows: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("expected no windows without rules, got %d", len(windows))
	}
}

func TestWindowsFromSlots(t *testing.T) {
	slots := []OpenSlot{
		{TrainerID: "t1", Date: "2025-06-17", StartTime: "08:00", EndTime: "08:30"},
		{TrainerID: "t1", Date: "2025-06-17", StartTime: "08:30", EndTime: "09:00", Booked: true},
		{TrainerID: "t1", Date: "2025-06-18", StartTime: "08:00", EndTime: "08:30"},
	}
	holidays := []Holiday{{StartsOn: "2025-06-18", EndsOn: "2025-06-18"}}

	windows, err := WindowsFromSlots(slots, holidays)
	if err != nil {
		t.Fatalf("WindowsFromSlots: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window (booked and holiday rows skipped), got %d", len(windows))
	}
	if windows[0].Source != SourceExplicit {
		t.Fatalf("window source = %s, want explicit", windows[0].Source)
	}
	if windows[0].Date != "2025-06-17" || windows[0].StartTime != "08:00" {
		t.Fatalf("unexpected window %+v", windows[0])
	}
}
