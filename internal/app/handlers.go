package app

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func statusForError(err error) int {
	var parseErr *ParseError
	var validationErr *ValidationError
	var transitionErr *TransitionError
	switch {
	case errors.As(err, &parseErr), errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict), errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

// validateRule enforces at authoring time what the resolver assumes: parseable
// times and end strictly after start.
func validateRule(r *AvailabilityRule) error {
	if r.Weekday < 0 || r.Weekday > 6 {
		return &ValidationError{Msg: "weekday must be 0 (Sunday) through 6 (Saturday)"}
	}
	start, err := ParseHHMM(r.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseHHMM(r.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return &ValidationError{Msg: "end_time must be after start_time"}
	}
	r.StartTime = FormatHHMM(start)
	r.EndTime = FormatHHMM(end)
	return nil
}

// POST /trainers/:id/availability
// Accepts a list of weekly rules for bulk creation.
func (a *App) SetAvailabilityHandler(c *gin.Context) {
	trainerID := c.Param("id")
	var payload []AvailabilityRule
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	var saved []AvailabilityRule
	for i := range payload {
		payload[i].TrainerID = trainerID
		if err := validateRule(&payload[i]); err != nil {
			abortWithError(c, err)
			return
		}
		if err := a.store.InsertRule(ctx, &payload[i]); err != nil {
			abortWithError(c, err)
			return
		}
		saved = append(saved, payload[i])
	}
	a.cache.invalidate(ctx, trainerID)
	c.JSON(http.StatusCreated, saved)
}

// GET /trainers/:id/availability
func (a *App) ListAvailabilityHandler(c *gin.Context) {
	rules, err := a.store.ListRules(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// PUT /trainers/:id/availability/:rule_id
func (a *App) UpdateAvailabilityHandler(c *gin.Context) {
	trainerID := c.Param("id")
	ruleID, err := strconv.ParseInt(c.Param("rule_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	var payload AvailabilityRule
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.ID = ruleID
	payload.TrainerID = trainerID
	if err := validateRule(&payload); err != nil {
		abortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := a.store.UpdateRule(ctx, &payload); err != nil {
		abortWithError(c, err)
		return
	}
	a.cache.invalidate(ctx, trainerID)
	c.JSON(http.StatusOK, payload)
}

// DELETE /trainers/:id/availability/:rule_id
func (a *App) DeleteAvailabilityHandler(c *gin.Context) {
	trainerID := c.Param("id")
	ruleID, err := strconv.ParseInt(c.Param("rule_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}
	ctx := c.Request.Context()
	if err := a.store.DeleteRule(ctx, trainerID, ruleID); err != nil {
		abortWithError(c, err)
		return
	}
	a.cache.invalidate(ctx, trainerID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /trainers/:id/holidays
func (a *App) CreateHolidayHandler(c *gin.Context) {
	trainerID := c.Param("id")
	var payload Holiday
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := ParseISODate(payload.StartsOn); err != nil {
		abortWithError(c, err)
		return
	}
	if _, err := ParseISODate(payload.EndsOn); err != nil {
		abortWithError(c, err)
		return
	}
	if payload.EndsOn < payload.StartsOn {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ends_on must not precede starts_on"})
		return
	}
	payload.TrainerID = trainerID

	ctx := c.Request.Context()
	if err := a.store.InsertHoliday(ctx, &payload); err != nil {
		abortWithError(c, err)
		return
	}
	a.cache.invalidate(ctx, trainerID)
	c.JSON(http.StatusCreated, payload)
}

// GET /trainers/:id/holidays
func (a *App) ListHolidaysHandler(c *gin.Context) {
	holidays, err := a.store.ListHolidays(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, holidays)
}

// DELETE /trainers/:id/holidays/:holiday_id
func (a *App) DeleteHolidayHandler(c *gin.Context) {
	trainerID := c.Param("id")
	holidayID, err := strconv.ParseInt(c.Param("holiday_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid holiday id"})
		return
	}
	ctx := c.Request.Context()
	if err := a.store.DeleteHoliday(ctx, trainerID, holidayID); err != nil {
		abortWithError(c, err)
		return
	}
	a.cache.invalidate(ctx, trainerID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /trainers/:id/slots?from=YYYY-MM-DD&to=YYYY-MM-DD&period=morning
// Defaults to today through today+29 when no range is given.
func (a *App) GetOpenSlotsHandler(c *gin.Context) {
	trainerID := c.Param("id")

	from := time.Now()
	to := from.AddDate(0, 0, DefaultRangeDays-1)
	if s := c.Query("from"); s != "" {
		d, err := ParseISODate(s)
		if err != nil {
			abortWithError(c, err)
			return
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := ParseISODate(s)
		if err != nil {
			abortWithError(c, err)
			return
		}
		to = d
	}
	if ToISODate(to) < ToISODate(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return
	}

	period, err := ParsePeriod(c.Query("period"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	days, err := a.ListOpenSlots(c.Request.Context(), trainerID, from, to, period)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if days == nil {
		days = []DaySlots{}
	}
	c.JSON(http.StatusOK, days)
}

type slotRangeRequest struct {
	Date        string `json:"date" binding:"required"`
	FromTime    string `json:"from_time" binding:"required"`
	ToTime      string `json:"to_time" binding:"required"`
	StepMinutes int    `json:"step_minutes" binding:"required"`
	IsOnline    bool   `json:"is_online"`
}

// POST /trainers/:id/slots/generate
// Previews the expansion without persisting anything.
func (a *App) GenerateSlotRangeHandler(c *gin.Context) {
	var req slotRangeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slots, err := GenerateSlotRange(req.Date, req.FromTime, req.ToTime, req.StepMinutes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// POST /trainers/:id/slots
// Expands the range and inserts the explicit rows in one batch.
func (a *App) CreateSlotRangeHandler(c *gin.Context) {
	trainerID := c.Param("id")
	var req slotRangeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slots, err := a.CreateSlotRange(c.Request.Context(), trainerID,
		req.Date, req.FromTime, req.ToTime, req.StepMinutes, req.IsOnline)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slots)
}

// DELETE /trainers/:id/slots?date=YYYY-MM-DD
// Removes the day's explicit slots, skipping booked ones.
func (a *App) DeleteSlotDayHandler(c *gin.Context) {
	trainerID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required"})
		return
	}
	n, err := a.DeleteSlotDay(c.Request.Context(), trainerID, date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

type createBookingRequest struct {
	SlotRequest
	UserID string `json:"user_id"` // optional; JWT subject takes precedence
}

// POST /trainers/:id/bookings
func (a *App) CreateBookingHandler(c *gin.Context) {
	trainerID := c.Param("id")
	var req createBookingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := CurrentUserID(c)
	if userID == "" {
		userID = req.UserID
	}
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller identity required"})
		return
	}

	b, err := a.CreateBooking(c.Request.Context(), trainerID, userID, req.SlotRequest)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /trainers/:id/bookings?from=YYYY-MM-DD&to=YYYY-MM-DD
// Trainer inbox; statuses are normalized for display.
func (a *App) ListBookingsHandler(c *gin.Context) {
	trainerID := c.Param("id")
	from := c.DefaultQuery("from", ToISODate(time.Now()))
	to := c.DefaultQuery("to", ToISODate(time.Now().AddDate(0, 0, DefaultRangeDays-1)))
	if _, err := ParseISODate(from); err != nil {
		abortWithError(c, err)
		return
	}
	if _, err := ParseISODate(to); err != nil {
		abortWithError(c, err)
		return
	}

	bookings, err := a.store.ListBookings(c.Request.Context(), trainerID, from, to)
	if err != nil {
		abortWithError(c, err)
		return
	}
	for i := range bookings {
		bookings[i].Status = NormalizeStatus(bookings[i].Status)
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// POST /bookings/:id/accept
func (a *App) AcceptBookingHandler(c *gin.Context) {
	b, err := a.AcceptBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type declineRequest struct {
	Reason string `json:"reason"`
}

// POST /bookings/:id/decline
func (a *App) DeclineBookingHandler(c *gin.Context) {
	var req declineRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	b, err := a.DeclineBooking(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /bookings/:id/cancel
func (a *App) CancelBookingHandler(c *gin.Context) {
	b, err := a.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
