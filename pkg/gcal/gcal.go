// Package gcal mirrors locally created events into Google Calendar on a
// best-effort basis. Every outcome is reported as data; nothing here ever
// fails the event creation that triggered it.
package gcal

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"eventplannerservice/pkg/models"
	"eventplannerservice/pkg/repository"
)

const calendarID = "primary"

// Google Calendar event ids must use the base32hex alphabet.
var eventIDEncoding = base32.NewEncoding("abcdefghijklmnopqrstuv0123456789").WithPadding(base32.NoPadding)

const (
	msgSuccess       = "Google Calendar sync successful."
	msgFailed        = "Google Calendar sync failed"
	msgNoCredentials = "No Google tokens found for user. Google Calendar sync failed."
)

// SyncResult is attached to the event-creation response.
type SyncResult struct {
	Synced  bool
	Message string
}

// NewEventID generates a 26-character Google Calendar-compatible event id
// from 128 bits of randomness.
func NewEventID() string {
	id := uuid.New()
	return eventIDEncoding.EncodeToString(id[:])
}

// Convert maps an internal event to the Google Calendar schema. All-day
// events carry date-only fields; timed events carry a timezone-qualified
// datetime built from the (date, time, timezone) triple.
func Convert(e *models.Event) *calendar.Event {
	gev := &calendar.Event{
		Id:          e.ID,
		Summary:     e.Title,
		Description: e.Description,
		Location:    e.Location,
	}

	if e.IsAllDay {
		gev.Start = &calendar.EventDateTime{Date: e.StartDate.Format("2006-01-02")}
		gev.End = &calendar.EventDateTime{Date: e.EndDate.Format("2006-01-02")}
	} else {
		gev.Start = &calendar.EventDateTime{
			DateTime: fmt.Sprintf("%sT%s:00", e.StartDate.Format("2006-01-02"), e.StartTime),
			TimeZone: e.Timezone,
		}
		gev.End = &calendar.EventDateTime{
			DateTime: fmt.Sprintf("%sT%s:00", e.EndDate.Format("2006-01-02"), e.EndTime),
			TimeZone: e.Timezone,
		}
	}

	if e.IsRecurring && e.RecurrenceRule != "" {
		gev.Recurrence = []string{e.RecurrenceRule}
	}
	return gev
}

// credentialSource looks up stored Google tokens for a user.
type credentialSource interface {
	GetGoogleToken(ctx context.Context, userID string) (models.GoogleToken, error)
}

// clientSource builds an HTTP client from stored Google credentials.
type clientSource interface {
	HTTPClient(ctx context.Context, tok *oauth2.Token) *http.Client
}

// Syncer pushes events to Google Calendar using a user's stored tokens.
type Syncer struct {
	tokens   credentialSource
	google   clientSource
	endpoint string
}

type Option func(*Syncer)

// WithEndpoint points the calendar API at a different base URL, used by
// tests.
func WithEndpoint(url string) Option {
	return func(s *Syncer) {
		s.endpoint = url
	}
}

func NewSyncer(tokens credentialSource, google clientSource, opts ...Option) *Syncer {
	s := &Syncer{tokens: tokens, google: google}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncEvent attempts a single create-event call against Google Calendar.
// A missing token record means sync is skipped, not an error; any failure is
// logged and reported through the result.
func (s *Syncer) SyncEvent(ctx context.Context, e *models.Event) SyncResult {
	tok, err := s.tokens.GetGoogleToken(ctx, e.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SyncResult{Synced: false, Message: msgNoCredentials}
		}
		log.Printf("google calendar sync: load tokens: %v", err)
		return SyncResult{Synced: false, Message: msgFailed}
	}

	client := s.google.HTTPClient(ctx, &oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		log.Printf("google calendar sync: build service: %v", err)
		return SyncResult{Synced: false, Message: msgFailed}
	}

	if _, err := svc.Events.Insert(calendarID, Convert(e)).Context(ctx).Do(); err != nil {
		log.Printf("google calendar sync: insert event: %v", err)
		return SyncResult{Synced: false, Message: msgFailed}
	}
	return SyncResult{Synced: true, Message: msgSuccess}
}
