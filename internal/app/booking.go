package app

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SlotRequest identifies the slot a user wants to book.
type SlotRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Note      string `json:"note"`
}

// CreateBooking inserts a pending booking for the chosen slot. The slot is
// re-validated against current store state at write time; stale client state
// is never trusted. A conflict surfaces as ErrConflict and the caller must
// re-fetch open slots before retrying.
func (a *App) CreateBooking(ctx context.Context, trainerID, userID string, req SlotRequest) (Booking, error) {
	day, err := ParseISODate(req.Date)
	if err != nil {
		return Booking{}, err
	}
	startMin, err := ParseHHMM(req.StartTime)
	if err != nil {
		return Booking{}, err
	}
	endMin, err := ParseHHMM(req.EndTime)
	if err != nil {
		return Booking{}, err
	}
	if endMin <= startMin {
		return Booking{}, &ValidationError{Msg: "end_time must be after start_time"}
	}

	days, err := a.computeOpenSlots(ctx, trainerID, day, day, PeriodAny)
	if err != nil {
		return Booking{}, err
	}
	var chosen *Window
	for i := range days {
		if days[i].Date != req.Date {
			continue
		}
		for j := range days[i].Slots {
			w := &days[i].Slots[j]
			if w.startMin == startMin && w.endMin == endMin {
				chosen = w
				break
			}
		}
	}
	if chosen == nil {
		return Booking{}, ErrConflict
	}

	b := Booking{
		ID:          uuid.NewString(),
		TrainerID:   trainerID,
		UserID:      userID,
		Date:        req.Date,
		StartTime:   FormatHHMM(startMin),
		EndTime:     FormatHHMM(endMin),
		DurationMin: endMin - startMin,
		Note:        req.Note,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.InsertBooking(ctx, &b); err != nil {
		return Booking{}, err
	}

	if chosen.Source == SourceExplicit {
		// The slot disappears from listings transitively through the new
		// booking either way; marking the row keeps authored state honest.
		if err := a.store.MarkSlotBooked(ctx, trainerID, b.Date, b.StartTime); err != nil {
			a.logger.Warn("failed to mark explicit slot booked",
				"trainer_id", trainerID, "date", b.Date, "start", b.StartTime, "err", err)
		}
	}

	a.cache.invalidate(ctx, trainerID)
	a.logger.Info("booking created", "booking_id", b.ID, "trainer_id", trainerID, "date", b.Date)
	return b, nil
}

// AcceptBooking moves a pending booking to accepted. Re-invoking on an
// already-accepted booking is a no-op success; invoking on a declined or
// cancelled booking fails with TransitionError.
func (a *App) AcceptBooking(ctx context.Context, bookingID string) (Booking, error) {
	return a.decide(ctx, bookingID, StatusAccepted, "")
}

// DeclineBooking moves a pending booking to declined, recording the reason.
// Re-invoking on an already-declined booking is a no-op success.
func (a *App) DeclineBooking(ctx context.Context, bookingID, reason string) (Booking, error) {
	return a.decide(ctx, bookingID, StatusDeclined, reason)
}

// decide runs the ordered-candidate write strategy for heterogeneous status
// schemas: write a candidate value, re-read, and stop at the first value that
// sticks. A read-back blocked by access policy counts as confirmation of a
// successful write.
func (a *App) decide(ctx context.Context, bookingID, target, reason string) (Booking, error) {
	b, err := a.store.GetBooking(ctx, bookingID)
	if err != nil {
		return Booking{}, err
	}
	switch norm := NormalizeStatus(b.Status); norm {
	case target:
		b.Status = norm
		return b, nil
	case StatusPending:
	default:
		return Booking{}, &TransitionError{BookingID: bookingID, From: norm, To: target}
	}

	now := time.Now().UTC()
	var attempted []string
	for _, cand := range transitionCandidates[target] {
		attempted = append(attempted, cand)
		if err := a.store.SetBookingStatus(ctx, bookingID, cand, now, reason); err != nil {
			a.logger.Warn("status candidate rejected",
				"booking_id", bookingID, "value", cand, "err", err)
			continue
		}
		rb, err := a.store.GetBooking(ctx, bookingID)
		if err != nil {
			b.Status = cand
			a.applyDecisionTimestamp(&b, target, now, reason)
			a.cache.invalidate(ctx, b.TrainerID)
			return b, nil
		}
		if NormalizeStatus(rb.Status) != StatusPending {
			a.cache.invalidate(ctx, rb.TrainerID)
			a.logger.Info("booking decided", "booking_id", bookingID, "status", rb.Status)
			return rb, nil
		}
	}
	return Booking{}, &TransitionError{BookingID: bookingID, From: StatusPending, To: target, Attempted: attempted}
}

func (a *App) applyDecisionTimestamp(b *Booking, target string, ts time.Time, reason string) {
	switch target {
	case StatusAccepted:
		b.AcceptedAt = &ts
	case StatusDeclined:
		b.DeclinedAt = &ts
		b.DeclineReason = reason
	case StatusCancelled:
		b.CancelledAt = &ts
	}
}

// CancelBooking cancels a pending or accepted booking. Cancelled is terminal;
// repeating the call is a no-op success, while cancelling a declined booking
// fails with TransitionError.
func (a *App) CancelBooking(ctx context.Context, bookingID string) (Booking, error) {
	b, err := a.store.GetBooking(ctx, bookingID)
	if err != nil {
		return Booking{}, err
	}
	switch norm := NormalizeStatus(b.Status); norm {
	case StatusCancelled:
		b.Status = norm
		return b, nil
	case StatusPending, StatusAccepted:
	default:
		return Booking{}, &TransitionError{BookingID: bookingID, From: norm, To: StatusCancelled}
	}

	now := time.Now().UTC()
	if err := a.store.SetBookingStatus(ctx, bookingID, StatusCancelled, now, ""); err != nil {
		return Booking{}, err
	}
	b.Status = StatusCancelled
	b.CancelledAt = &now
	a.cache.invalidate(ctx, b.TrainerID)
	a.logger.Info("booking cancelled", "booking_id", bookingID)
	return b, nil
}
