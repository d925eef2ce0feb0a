package app

import (
	"context"
	"time"
)

// MaterializeOpenSlots removes every candidate window that overlaps a booking
// on the same date and groups the survivors by date, optionally filtered by
// day period. Bookings passed in are expected to be the trainer's
// pending+accepted set for the range; declined and cancelled bookings never
// block a slot.
//
// The function is pure and safe to recompute on every read.
func MaterializeOpenSlots(windows []Window, bookings []Booking, period Period) ([]DaySlots, error) {
	type interval struct{ start, end int }
	busy := make(map[string][]interval, len(bookings))
	for _, b := range bookings {
		start, err := ParseHHMM(b.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseHHMM(b.EndTime)
		if err != nil {
			return nil, err
		}
		busy[b.Date] = append(busy[b.Date], interval{start, end})
	}

	var out []DaySlots
	for _, w := range windows {
		if !period.matches(w.startMin) {
			continue
		}
		blocked := false
		for _, iv := range busy[w.Date] {
			if Overlaps(w.startMin, w.endMin, iv.start, iv.end) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		// Windows arrive sorted by date then start, so grouping preserves order.
		if n := len(out); n > 0 && out[n-1].Date == w.Date {
			out[n-1].Slots = append(out[n-1].Slots, w)
		} else {
			out = append(out, DaySlots{Date: w.Date, Slots: []Window{w}})
		}
	}
	return out, nil
}

// ListOpenSlots produces the bookable slots for a trainer over [from, to].
// Explicit trainer-authored rows take precedence for the whole range: only
// when zero explicit rows exist does the weekly-rule resolver supply the
// candidates.
func (a *App) ListOpenSlots(ctx context.Context, trainerID string, from, to time.Time, period Period) ([]DaySlots, error) {
	fromISO, toISO := ToISODate(from), ToISODate(to)

	if cached, ok := a.cache.getSlots(ctx, trainerID, fromISO, toISO, period); ok {
		return cached, nil
	}
	days, err := a.computeOpenSlots(ctx, trainerID, from, to, period)
	if err != nil {
		return nil, err
	}
	a.cache.putSlots(ctx, trainerID, fromISO, toISO, period, days)
	return days, nil
}

// computeOpenSlots is the uncached read path. Booking creation calls it
// directly so write-time revalidation never trusts stale cache state.
func (a *App) computeOpenSlots(ctx context.Context, trainerID string, from, to time.Time, period Period) ([]DaySlots, error) {
	fromISO, toISO := ToISODate(from), ToISODate(to)

	holidays, err := a.store.ListHolidays(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	explicit, err := a.store.ListExplicitSlots(ctx, trainerID, fromISO, toISO)
	if err != nil {
		return nil, err
	}

	var windows []Window
	if len(explicit) > 0 {
		windows, err = WindowsFromSlots(explicit, holidays)
	} else {
		var rules []AvailabilityRule
		rules, err = a.store.ListRules(ctx, trainerID)
		if err != nil {
			return nil, err
		}
		windows, err = ResolveWindows(rules, holidays, from, to)
	}
	if err != nil {
		return nil, err
	}

	bookings, err := a.store.ListActiveBookings(ctx, trainerID, fromISO, toISO)
	if err != nil {
		return nil, err
	}

	return MaterializeOpenSlots(windows, bookings, period)
}
