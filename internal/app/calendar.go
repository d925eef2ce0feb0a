package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Trainers can connect a Google Calendar to eyeball their external
// commitments next to their fitbook bookings. The integration is read-only
// and purely advisory; it never feeds the materializer.

type GoogleCalendarConfig struct {
	Config *oauth2.Config
}

// ExternalEvent is a trainer's Google Calendar event, reduced to what the
// schedule view needs.
type ExternalEvent struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location,omitempty"`
	Status    string    `json:"status"`
}

// InitGoogleCalendarConfig builds the OAuth2 config from env, nil when the
// integration is not configured.
func InitGoogleCalendarConfig() *GoogleCalendarConfig {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil
	}

	return &GoogleCalendarConfig{Config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			calendar.CalendarReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}}
}

// GET /calendar/auth — starts the OAuth2 flow for a trainer.
func (a *App) GoogleAuthHandler(c *gin.Context) {
	cfg := InitGoogleCalendarConfig()
	if cfg == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return
	}

	state := fmt.Sprintf("trainer_%s_%d", c.Query("trainer_id"), time.Now().Unix())
	url := cfg.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{
		"auth_url": url,
		"state":    state,
	})
}

// GET /oauth2callback
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	cfg := InitGoogleCalendarConfig()
	if cfg == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	token, err := cfg.Config.Exchange(context.Background(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}

	tokenJSON, _ := json.Marshal(token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Authorization successful",
		"state":   state,
		"token":   string(tokenJSON),
	})
}

func calendarServiceFromRequest(c *gin.Context) (*calendar.Service, bool) {
	tokenStr := c.GetHeader("X-Google-Token")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google token required in X-Google-Token header"})
		return nil, false
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenStr), &token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token format"})
		return nil, false
	}
	cfg := InitGoogleCalendarConfig()
	if cfg == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return nil, false
	}
	client := cfg.Config.Client(context.Background(), &token)
	srv, err := calendar.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create calendar service"})
		return nil, false
	}
	return srv, true
}

// GET /calendar/events — the trainer's external commitments in a time range.
func (a *App) GetExternalEventsHandler(c *gin.Context) {
	srv, ok := calendarServiceFromRequest(c)
	if !ok {
		return
	}

	calendarID := c.DefaultQuery("calendar_id", "primary")
	eventsCall := srv.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250)
	if v := c.Query("time_min"); v != "" {
		eventsCall = eventsCall.TimeMin(v)
	}
	if v := c.Query("time_max"); v != "" {
		eventsCall = eventsCall.TimeMax(v)
	}

	events, err := eventsCall.Do()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to retrieve events: %v", err)})
		return
	}

	out := make([]ExternalEvent, 0, len(events.Items))
	for _, item := range events.Items {
		ev := ExternalEvent{
			ID:       item.Id,
			Summary:  item.Summary,
			Location: item.Location,
			Status:   item.Status,
		}
		ev.StartTime = parseCalendarTime(item.Start)
		ev.EndTime = parseCalendarTime(item.End)
		out = append(out, ev)
	}

	c.JSON(http.StatusOK, gin.H{
		"events": out,
		"count":  len(out),
	})
}

func parseCalendarTime(dt *calendar.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t
		}
	}
	if dt.Date != "" {
		if t, err := time.Parse("2006-01-02", dt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GET /calendar/calendars — the trainer's connectable calendars.
func (a *App) ListCalendarsHandler(c *gin.Context) {
	srv, ok := calendarServiceFromRequest(c)
	if !ok {
		return
	}

	calendarList, err := srv.CalendarList.List().Do()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to retrieve calendars: %v", err)})
		return
	}

	type calendarInfo struct {
		ID         string `json:"id"`
		Summary    string `json:"summary"`
		Primary    bool   `json:"primary"`
		AccessRole string `json:"access_role"`
	}

	var calendars []calendarInfo
	for _, item := range calendarList.Items {
		calendars = append(calendars, calendarInfo{
			ID:         item.Id,
			Summary:    item.Summary,
			Primary:    item.Primary,
			AccessRole: item.AccessRole,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"calendars": calendars,
		"count":     len(calendars),
	})
}
