package app

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres-backed Store. Times of day are stored as
// zero-padded "HH:MM" text, so lexicographic comparison in SQL matches
// minute-order comparison in Go. Dates are "YYYY-MM-DD" text with the same
// property.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{DB: pool}
}

// Status words that do not block a slot, across every schema vocabulary we
// have encountered.
var terminalStatusWords = []string{"declined", "rejected", "reject", "cancelled"}

func isPgConflict(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 unique_violation, 23P01 exclusion_violation (present when the
	// operator has added a server-side no-overlap constraint).
	return errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23P01")
}

func (s *PGStore) InsertRule(ctx context.Context, r *AvailabilityRule) error {
	now := time.Now().UTC()
	q := `INSERT INTO availability_rules
	      (trainer_id, weekday, start_time, end_time, is_online, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`
	r.CreatedAt, r.UpdatedAt = now, now
	return s.DB.QueryRow(ctx, q,
		r.TrainerID, r.Weekday, r.StartTime, r.EndTime, r.IsOnline, now, now).Scan(&r.ID)
}

func (s *PGStore) ListRules(ctx context.Context, trainerID string) ([]AvailabilityRule, error) {
	q := `SELECT id, trainer_id, weekday, start_time, end_time, is_online, created_at, updated_at
	      FROM availability_rules WHERE trainer_id=$1 ORDER BY weekday, start_time, id`
	rows, err := s.DB.Query(ctx, q, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AvailabilityRule
	for rows.Next() {
		var r AvailabilityRule
		if err := rows.Scan(&r.ID, &r.TrainerID, &r.Weekday, &r.StartTime, &r.EndTime,
			&r.IsOnline, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdateRule(ctx context.Context, r *AvailabilityRule) error {
	now := time.Now().UTC()
	q := `UPDATE availability_rules
	      SET weekday=$1, start_time=$2, end_time=$3, is_online=$4, updated_at=$5
	      WHERE id=$6 AND trainer_id=$7 RETURNING id`
	err := s.DB.QueryRow(ctx, q,
		r.Weekday, r.StartTime, r.EndTime, r.IsOnline, now, r.ID, r.TrainerID).Scan(&r.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err == nil {
		r.UpdatedAt = now
	}
	return err
}

func (s *PGStore) DeleteRule(ctx context.Context, trainerID string, ruleID int64) error {
	tag, err := s.DB.Exec(ctx,
		`DELETE FROM availability_rules WHERE id=$1 AND trainer_id=$2`, ruleID, trainerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) InsertHoliday(ctx context.Context, h *Holiday) error {
	now := time.Now().UTC()
	q := `INSERT INTO holidays (trainer_id, starts_on, ends_on, reason, created_at)
	      VALUES ($1,$2,$3,$4,$5) RETURNING id`
	h.CreatedAt = now
	return s.DB.QueryRow(ctx, q, h.TrainerID, h.StartsOn, h.EndsOn, h.Reason, now).Scan(&h.ID)
}

func (s *PGStore) ListHolidays(ctx context.Context, trainerID string) ([]Holiday, error) {
	q := `SELECT id, trainer_id, starts_on, ends_on, COALESCE(reason, ''), created_at
	      FROM holidays WHERE trainer_id=$1 ORDER BY starts_on`
	rows, err := s.DB.Query(ctx, q, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.TrainerID, &h.StartsOn, &h.EndsOn, &h.Reason, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *PGStore) DeleteHoliday(ctx context.Context, trainerID string, holidayID int64) error {
	tag, err := s.DB.Exec(ctx,
		`DELETE FROM holidays WHERE id=$1 AND trainer_id=$2`, holidayID, trainerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) InsertSlots(ctx context.Context, slots []OpenSlot) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `INSERT INTO open_slots (trainer_id, date, start_time, end_time, is_online, booked)
	      VALUES ($1,$2,$3,$4,$5,false) RETURNING id`
	for i := range slots {
		sl := &slots[i]
		if err := tx.QueryRow(ctx, q,
			sl.TrainerID, sl.Date, sl.StartTime, sl.EndTime, sl.IsOnline).Scan(&sl.ID); err != nil {
			if isPgConflict(err) {
				return ErrConflict
			}
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PGStore) ListExplicitSlots(ctx context.Context, trainerID, fromDate, toDate string) ([]OpenSlot, error) {
	q := `SELECT id, trainer_id, date, start_time, end_time, is_online, booked
	      FROM open_slots
	      WHERE trainer_id=$1 AND date >= $2 AND date <= $3
	      ORDER BY date, start_time`
	rows, err := s.DB.Query(ctx, q, trainerID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpenSlot
	for rows.Next() {
		var sl OpenSlot
		if err := rows.Scan(&sl.ID, &sl.TrainerID, &sl.Date, &sl.StartTime, &sl.EndTime,
			&sl.IsOnline, &sl.Booked); err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func (s *PGStore) DeleteUnbookedSlots(ctx context.Context, trainerID, date string) (int64, error) {
	tag, err := s.DB.Exec(ctx,
		`DELETE FROM open_slots WHERE trainer_id=$1 AND date=$2 AND booked=false`, trainerID, date)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PGStore) MarkSlotBooked(ctx context.Context, trainerID, date, startTime string) error {
	_, err := s.DB.Exec(ctx,
		`UPDATE open_slots SET booked=true WHERE trainer_id=$1 AND date=$2 AND start_time=$3`,
		trainerID, date, startTime)
	return err
}

// InsertBooking writes the booking inside a transaction that first locks and
// probes for overlapping non-terminal bookings. No server-side exclusion
// constraint is assumed, so this optimistic probe is the documented
// mitigation for racing booking attempts; if the operator has added one, its
// violation also maps to ErrConflict.
func (s *PGStore) InsertBooking(ctx context.Context, b *Booking) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	checkQ := `SELECT id FROM bookings
	           WHERE trainer_id=$1 AND date=$2
	             AND status != ALL($3)
	             AND start_time < $5 AND end_time > $4
	           FOR UPDATE`
	var existingID string
	err = tx.QueryRow(ctx, checkQ,
		b.TrainerID, b.Date, terminalStatusWords, b.StartTime, b.EndTime).Scan(&existingID)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	insertQ := `INSERT INTO bookings
	            (id, trainer_id, user_id, date, start_time, end_time, duration_min, note, status, created_at)
	            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	if _, err := tx.Exec(ctx, insertQ,
		b.ID, b.TrainerID, b.UserID, b.Date, b.StartTime, b.EndTime,
		b.DurationMin, b.Note, b.Status, b.CreatedAt); err != nil {
		if isPgConflict(err) {
			return ErrConflict
		}
		return err
	}
	return tx.Commit(ctx)
}

const bookingColumns = `id, trainer_id, user_id, date, start_time, end_time, duration_min,
	COALESCE(note, ''), status, COALESCE(decline_reason, ''), created_at,
	accepted_at, declined_at, cancelled_at`

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.TrainerID, &b.UserID, &b.Date, &b.StartTime, &b.EndTime,
		&b.DurationMin, &b.Note, &b.Status, &b.DeclineReason, &b.CreatedAt,
		&b.AcceptedAt, &b.DeclinedAt, &b.CancelledAt)
	return b, err
}

func (s *PGStore) GetBooking(ctx context.Context, id string) (Booking, error) {
	b, err := scanBooking(s.DB.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	return b, err
}

func (s *PGStore) ListBookings(ctx context.Context, trainerID, fromDate, toDate string) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings
	      WHERE trainer_id=$1 AND date >= $2 AND date <= $3
	      ORDER BY date, start_time`
	return s.queryBookings(ctx, q, trainerID, fromDate, toDate)
}

func (s *PGStore) ListActiveBookings(ctx context.Context, trainerID, fromDate, toDate string) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings
	      WHERE trainer_id=$1 AND date >= $2 AND date <= $3
	        AND status != ALL($4)
	      ORDER BY date, start_time`
	return s.queryBookings(ctx, q, trainerID, fromDate, toDate, terminalStatusWords)
}

func (s *PGStore) queryBookings(ctx context.Context, q string, args ...any) ([]Booking, error) {
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SetBookingStatus writes one literal status value and stamps the matching
// decision column, chosen by the value's normalized meaning (a legacy
// "cancelled" written during a decline stamps cancelled_at, matching what
// that schema generation meant by it).
func (s *PGStore) SetBookingStatus(ctx context.Context, id, statusValue string, decidedAt time.Time, reason string) error {
	var (
		q    string
		args []any
	)
	switch NormalizeStatus(statusValue) {
	case StatusAccepted:
		q = `UPDATE bookings SET status=$2, accepted_at=$3 WHERE id=$1`
		args = []any{id, statusValue, decidedAt}
	case StatusDeclined:
		q = `UPDATE bookings SET status=$2, declined_at=$3, decline_reason=$4 WHERE id=$1`
		args = []any{id, statusValue, decidedAt, reason}
	case StatusCancelled:
		q = `UPDATE bookings SET status=$2, cancelled_at=$3 WHERE id=$1`
		args = []any{id, statusValue, decidedAt}
	default:
		q = `UPDATE bookings SET status=$2 WHERE id=$1`
		args = []any{id, statusValue}
	}
	tag, err := s.DB.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
