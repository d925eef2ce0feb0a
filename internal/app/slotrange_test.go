package app

import (
	"errors"
	"testing"
)

func TestGenerateSlotRange_Deterministic(t *testing.T) {
	slots, err := GenerateSlotRange("2025-06-20", "08:00", "09:30", 30)
	if err != nil {
		t.Fatalf("GenerateSlotRange: %v", err)
	}
	want := [][2]string{{"08:00", "08:30"}, {"08:30", "09:00"}, {"09:00", "09:30"}}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, w := range want {
		if slots[i].Date != "2025-06-20" {
			t.Fatalf("slot %d date = %s", i, slots[i].Date)
		}
		if slots[i].StartTime != w[0] || slots[i].EndTime != w[1] {
			t.Fatalf("slot %d = %s-%s, want %s-%s", i, slots[i].StartTime, slots[i].EndTime, w[0], w[1])
		}
	}
}

func TestGenerateSlotRange_StopsBeforeToTime(t *testing.T) {
	// Generation stops once the next start would reach to_time, even when the
	// last slot's end runs past it.
	slots, err := GenerateSlotRange("2025-06-20", "08:00", "09:15", 30)
	if err != nil {
		t.Fatalf("GenerateSlotRange: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[2].StartTime != "09:00" {
		t.Fatalf("last slot starts at %s, want 09:00", slots[2].StartTime)
	}
}

func TestGenerateSlotRange_Invalid(t *testing.T) {
	var validationErr *ValidationError

	_, err := GenerateSlotRange("2025-06-20", "09:00", "09:00", 30)
	if !errors.As(err, &validationErr) {
		t.Fatalf("to == from: expected ValidationError, got %v", err)
	}
	_, err = GenerateSlotRange("2025-06-20", "10:00", "09:00", 30)
	if !errors.As(err, &validationErr) {
		t.Fatalf("to < from: expected ValidationError, got %v", err)
	}
	_, err = GenerateSlotRange("2025-06-20", "08:00", "09:00", 0)
	if !errors.As(err, &validationErr) {
		t.Fatalf("zero step: expected ValidationError, got %v", err)
	}

	var parseErr *ParseError
	_, err = GenerateSlotRange("June 20", "08:00", "09:00", 30)
	if !errors.As(err, &parseErr) {
		t.Fatalf("bad date: expected ParseError, got %v", err)
	}
}
