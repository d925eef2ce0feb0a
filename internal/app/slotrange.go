package app

import (
	"context"
	"fmt"
)

// GenerateSlotRange expands (date, from, to, step) into discrete candidate
// slots: the first starts at from, each lasts stepMinutes, and generation
// stops once the next start would reach to. Used by trainers to bulk-author
// explicit slot rows instead of relying on weekly rules.
func GenerateSlotRange(date, from, to string, stepMinutes int) ([]OpenSlot, error) {
	if _, err := ParseISODate(date); err != nil {
		return nil, err
	}
	fromMin, err := ParseHHMM(from)
	if err != nil {
		return nil, err
	}
	toMin, err := ParseHHMM(to)
	if err != nil {
		return nil, err
	}
	if toMin <= fromMin {
		return nil, &ValidationError{Msg: fmt.Sprintf("to_time %s must be after from_time %s", to, from)}
	}
	if stepMinutes <= 0 {
		return nil, &ValidationError{Msg: fmt.Sprintf("step_minutes must be positive, got %d", stepMinutes)}
	}

	var slots []OpenSlot
	for start := fromMin; start < toMin; start += stepMinutes {
		slots = append(slots, OpenSlot{
			Date:      date,
			StartTime: FormatHHMM(start),
			EndTime:   FormatHHMM(start + stepMinutes),
		})
	}
	if len(slots) == 0 {
		return nil, &ValidationError{Msg: "range produces zero slots"}
	}
	return slots, nil
}

// CreateSlotRange generates and persists explicit slot rows in one batch.
func (a *App) CreateSlotRange(ctx context.Context, trainerID, date, from, to string, stepMinutes int, isOnline bool) ([]OpenSlot, error) {
	slots, err := GenerateSlotRange(date, from, to, stepMinutes)
	if err != nil {
		return nil, err
	}
	for i := range slots {
		slots[i].TrainerID = trainerID
		slots[i].IsOnline = isOnline
	}
	if err := a.store.InsertSlots(ctx, slots); err != nil {
		return nil, err
	}
	a.cache.invalidate(ctx, trainerID)
	return slots, nil
}

// DeleteSlotDay removes all of a trainer's explicit slots on the given date,
// skipping any already booked. Returns the number of rows removed.
func (a *App) DeleteSlotDay(ctx context.Context, trainerID, date string) (int64, error) {
	if _, err := ParseISODate(date); err != nil {
		return 0, err
	}
	n, err := a.store.DeleteUnbookedSlots(ctx, trainerID, date)
	if err != nil {
		return 0, err
	}
	a.cache.invalidate(ctx, trainerID)
	return n, nil
}
