package app

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict signals that a booking collided with a slot that is taken or no
// longer available. Callers must re-fetch open slots before retrying; the
// service never retries on its own.
var ErrConflict = errors.New("slot already taken or no longer available")

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ParseError reports malformed date/time input.
type ParseError struct {
	Input string
	Want  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s", e.Input, e.Want)
}

// ValidationError reports an invalid range or slot specification.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// TransitionError reports that a booking status transition could not be
// applied: either the booking is in a terminal state, or none of the candidate
// status values were accepted by the store. Attempted lists the values tried,
// for operator diagnosis.
type TransitionError struct {
	BookingID string
	From      string
	To        string
	Attempted []string
}

func (e *TransitionError) Error() string {
	if len(e.Attempted) == 0 {
		return fmt.Sprintf("booking %s: cannot transition from %s to %s", e.BookingID, e.From, e.To)
	}
	return fmt.Sprintf("booking %s: no status value stuck for %s (attempted %s)",
		e.BookingID, e.To, strings.Join(e.Attempted, ", "))
}
