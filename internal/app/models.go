package app

import "time"

// AvailabilityRule is a recurring weekly window during which a trainer is
// nominally available. Multiple rules per weekday are allowed; overlapping
// rules are tolerated and never merged.
type AvailabilityRule struct {
	ID        int64     `json:"id"`
	TrainerID string    `json:"trainer_id"`
	Weekday   int       `json:"weekday"` // 0=Sunday .. 6=Saturday, matches time.Weekday
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsOnline  bool      `json:"is_online"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Holiday is an inclusive date range during which a trainer is fully
// unavailable, regardless of weekly rules or explicit slots.
type Holiday struct {
	ID        int64     `json:"id"`
	TrainerID string    `json:"trainer_id"`
	StartsOn  string    `json:"starts_on"` // YYYY-MM-DD, inclusive
	EndsOn    string    `json:"ends_on"`   // YYYY-MM-DD, inclusive
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// OpenSlot is a trainer-authored explicit slot row. When any explicit rows
// exist for a trainer in a requested range, they take precedence over windows
// derived from weekly rules.
type OpenSlot struct {
	ID        int64  `json:"id"`
	TrainerID string `json:"trainer_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsOnline  bool   `json:"is_online"`
	Booked    bool   `json:"booked"`
}

// Booking statuses. Legacy schemas use synonyms (confirmed/approved/rejected);
// see status.go for normalization and write candidates.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusCancelled = "cancelled"
)

// Booking is a user's request to reserve a slot. Rows are never physically
// deleted; the lifecycle is soft, via Status.
type Booking struct {
	ID            string     `json:"id"`
	TrainerID     string     `json:"trainer_id"`
	UserID        string     `json:"user_id"`
	Date          string     `json:"date"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	DurationMin   int        `json:"duration_min"`
	Note          string     `json:"note,omitempty"`
	Status        string     `json:"status"`
	DeclineReason string     `json:"decline_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	AcceptedAt    *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt    *time.Time `json:"declined_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

// SlotSource tags whether a window came from weekly-rule expansion or from an
// explicit trainer-authored row.
type SlotSource string

const (
	SourceDerived  SlotSource = "derived"
	SourceExplicit SlotSource = "explicit"
)

// Window is one bookable time window on a concrete date. startMin/endMin
// carry the parsed times so the materializer never re-parses.
type Window struct {
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	IsOnline  bool       `json:"is_online"`
	Source    SlotSource `json:"source"`

	startMin int
	endMin   int
}

// DaySlots groups one date's open windows, ordered by start time. Slices of
// DaySlots are ordered by date ascending.
type DaySlots struct {
	Date  string   `json:"date"`
	Slots []Window `json:"slots"`
}
