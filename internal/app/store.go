package app

import (
	"context"
	"time"
)

// Store is the relational backend consumed by the booking core. The pgx
// implementation lives in db.go; tests substitute an in-memory fake.
//
// Every method is a single network round trip to the external store and may
// fail independently; the core assumes no atomicity across calls except where
// InsertBooking documents its own transaction.
type Store interface {
	InsertRule(ctx context.Context, r *AvailabilityRule) error
	ListRules(ctx context.Context, trainerID string) ([]AvailabilityRule, error)
	UpdateRule(ctx context.Context, r *AvailabilityRule) error
	DeleteRule(ctx context.Context, trainerID string, ruleID int64) error

	InsertHoliday(ctx context.Context, h *Holiday) error
	ListHolidays(ctx context.Context, trainerID string) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, trainerID string, holidayID int64) error

	InsertSlots(ctx context.Context, slots []OpenSlot) error
	ListExplicitSlots(ctx context.Context, trainerID, fromDate, toDate string) ([]OpenSlot, error)
	DeleteUnbookedSlots(ctx context.Context, trainerID, date string) (int64, error)
	MarkSlotBooked(ctx context.Context, trainerID, date, startTime string) error

	// InsertBooking writes the row inside a transaction that re-probes for
	// overlapping non-terminal bookings (FOR UPDATE) and returns ErrConflict
	// when the slot was taken in the meantime.
	InsertBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, trainerID, fromDate, toDate string) ([]Booking, error)
	// ListActiveBookings returns only rows whose status reads as pending or
	// accepted under NormalizeStatus.
	ListActiveBookings(ctx context.Context, trainerID, fromDate, toDate string) ([]Booking, error)
	// SetBookingStatus writes one literal status value plus the matching
	// decided-at timestamp. It reports whether a row was affected; a store
	// that rejects the value returns an error instead.
	SetBookingStatus(ctx context.Context, id, statusValue string, decidedAt time.Time, reason string) error
}
