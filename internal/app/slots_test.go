package app

import "testing"

func mustWindows(t *testing.T, rules []AvailabilityRule, holidays []Holiday, fromISO, toISO string) []Window {
	t.Helper()
	windows, err := ResolveWindows(rules, holidays, day(t, fromISO), day(t, toISO))
	if err != nil {
		t.Fatalf("ResolveWindows: %v", err)
	}
	return windows
}

func TestMaterializeOpenSlots_ExcludesOverlappingBookings(t *testing.T) {
	windows := mustWindows(t, mondayRules("t1"), nil, "2025-06-16", "2025-06-16")
	bookings := []Booking{
		{TrainerID: "t1", Date: "2025-06-16", StartTime: "09:30", EndTime: "09:45", Status: StatusPending},
	}

	days, err := MaterializeOpenSlots(windows, bookings, PeriodAny)
	if err != nil {
		t.Fatalf("MaterializeOpenSlots: %v", err)
	}
	if len(days) != 1 || len(days[0].Slots) != 1 {
		t.Fatalf("expected only the 14:00 window to survive, got %+v", days)
	}
	if days[0].Slots[0].StartTime != "14:00" {
		t.Fatalf("surviving window starts at %s, want 14:00", days[0].Slots[0].StartTime)
	}
}

func TestMaterializeOpenSlots_TouchingBookingDoesNotBlock(t *testing.T) {
	windows := mustWindows(t, mondayRules("t1"), nil, "2025-06-16", "2025-06-16")
	// Ends exactly when the 09:00 window starts.
	bookings := []Booking{
		{Date: "2025-06-16", StartTime: "08:00", EndTime: "09:00", Status: StatusAccepted},
	}

	days, err := MaterializeOpenSlots(windows, bookings, PeriodAny)
	if err != nil {
		t.Fatalf("MaterializeOpenSlots: %v", err)
	}
	if len(days) != 1 || len(days[0].Slots) != 2 {
		t.Fatalf("touching booking must not block, got %+v", days)
	}
}

func TestMaterializeOpenSlots_BookingOnOtherDateIgnored(t *testing.T) {
	windows := mustWindows(t, mondayRules("t1"), nil, "2025-06-16", "2025-06-16")
	bookings := []Booking{
		{Date: "2025-06-17", StartTime: "09:00", EndTime: "10:00", Status: StatusPending},
	}

	days, err := MaterializeOpenSlots(windows, bookings, PeriodAny)
	if err != nil {
		t.Fatalf("MaterializeOpenSlots: %v", err)
	}
	if len(days) != 1 || len(days[0].Slots) != 2 {
		t.Fatalf("booking on another date must not block, got %+v", days)
	}
}

func TestMaterializeOpenSlots_PeriodFilter(t *testing.T) {
	windows := mustWindows(t, mondayRules("t1"), nil, "2025-06-16", "2025-06-16")

	morning, err := MaterializeOpenSlots(windows, nil, PeriodMorning)
	if err != nil {
		t.Fatalf("MaterializeOpenSlots: %v", err)
	}
	if len(morning) != 1 || len(morning[0].Slots) != 1 || morning[0].Slots[0].StartTime != "09:00" {
		t.Fatalf("morning filter wrong: %+v", morning)
	}

	night, err := MaterializeOpenSlots(windows, nil, PeriodNight)
	if err != nil {
		t.Fatalf("MaterializeOpenSlots: %v", err)
	}
	if len(night) != 0 {
		t.Fatalf("no night windows expected, got %+v", night)
	}
}

func TestMaterializeOpenSlots_GroupsByDateInOrder(t *testing.T) {
	windows := mustWindows(t, mondayRules("t1"), nil, "2025-06-16", "2025-06-30")
	days, err := MaterializeOpenSlots(windows, nil, PeriodAny)
	if err != nil {
		t.Fatalf("MaterializeOpenSlots: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 Mondays, got %d groups", len(days))
	}
	for i := 1; i < len(days); i++ {
		if days[i-1].Date >= days[i].Date {
			t.Fatalf("dates out of order: %s before %s", days[i-1].Date, days[i].Date)
		}
	}
	for _, d := range days {
		if len(d.Slots) != 2 {
			t.Fatalf("day %s has %d slots, want 2", d.Date, len(d.Slots))
		}
	}
}
