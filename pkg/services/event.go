package services

import (
	"context"
	"fmt"
	"time"

	"eventplannerservice/pkg/gcal"
	"eventplannerservice/pkg/models"
	"eventplannerservice/pkg/repository"
)

// CreateEventInput is a validated event creation request.
type CreateEventInput struct {
	Title          string
	EventTypeID    string
	Description    string
	Location       string
	StartDate      time.Time
	EndDate        time.Time
	StartTime      string
	EndTime        string
	IsAllDay       bool
	Color          string
	Priority       models.EventPriority
	Status         models.EventStatus
	IsRecurring    bool
	RecurrenceRule string
	UserID         string
	Timezone       string
}

// UpdateEventInput is a partial patch; nil fields are left untouched.
type UpdateEventInput struct {
	Title          *string
	EventTypeID    *string
	Description    *string
	Location       *string
	StartDate      *time.Time
	EndDate        *time.Time
	StartTime      *string
	EndTime        *string
	IsAllDay       *bool
	Color          *string
	Priority       *models.EventPriority
	Status         *models.EventStatus
	IsRecurring    *bool
	RecurrenceRule *string
	Timezone       *string
}

func (in UpdateEventInput) changes() map[string]interface{} {
	c := map[string]interface{}{}
	set := func(col string, v interface{}) {
		c[col] = v
	}
	if in.Title != nil {
		set("title", *in.Title)
	}
	if in.EventTypeID != nil {
		set("event_type_id", *in.EventTypeID)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.Location != nil {
		set("location", *in.Location)
	}
	if in.StartDate != nil {
		set("start_date", *in.StartDate)
	}
	if in.EndDate != nil {
		set("end_date", *in.EndDate)
	}
	if in.StartTime != nil {
		set("start_time", *in.StartTime)
	}
	if in.EndTime != nil {
		set("end_time", *in.EndTime)
	}
	if in.IsAllDay != nil {
		set("is_all_day", *in.IsAllDay)
	}
	if in.Color != nil {
		set("color", *in.Color)
	}
	if in.Priority != nil {
		set("priority", *in.Priority)
	}
	if in.Status != nil {
		set("status", *in.Status)
	}
	if in.IsRecurring != nil {
		set("is_recurring", *in.IsRecurring)
	}
	if in.RecurrenceRule != nil {
		set("recurrence_rule", *in.RecurrenceRule)
	}
	if in.Timezone != nil {
		set("timezone", *in.Timezone)
	}
	return c
}

// eventSyncer pushes an event to the external calendar, best-effort.
type eventSyncer interface {
	SyncEvent(ctx context.Context, e *models.Event) gcal.SyncResult
}

// Events owns the event lifecycle. Creation is the only operation that
// touches Google: the event row is committed first, then a sync is attempted
// and its outcome reported alongside.
type Events struct {
	store repository.Store
	sync  eventSyncer
}

func NewEvents(store repository.Store, sync eventSyncer) *Events {
	return &Events{store: store, sync: sync}
}

func (s *Events) Create(ctx context.Context, in CreateEventInput) (models.Event, gcal.SyncResult, error) {
	e := models.Event{
		ID:             gcal.NewEventID(),
		Title:          in.Title,
		EventTypeID:    in.EventTypeID,
		Description:    in.Description,
		Location:       in.Location,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		IsAllDay:       in.IsAllDay,
		Color:          in.Color,
		Priority:       in.Priority,
		Status:         in.Status,
		IsRecurring:    in.IsRecurring,
		RecurrenceRule: in.RecurrenceRule,
		UserID:         in.UserID,
		Timezone:       in.Timezone,
	}

	if err := s.store.CreateEvent(ctx, &e); err != nil {
		return models.Event{}, gcal.SyncResult{}, fmt.Errorf("create event: %w", err)
	}

	// The event is already committed; sync failure is reported, never
	// propagated.
	res := s.sync.SyncEvent(ctx, &e)
	return e, res, nil
}

func (s *Events) Get(ctx context.Context, id string) (models.Event, error) {
	return s.store.GetEvent(ctx, id)
}

func (s *Events) Update(ctx context.Context, id string, in UpdateEventInput) (models.Event, error) {
	changes := in.changes()
	if len(changes) > 0 {
		rows, err := s.store.UpdateEvent(ctx, id, changes)
		if err != nil {
			return models.Event{}, fmt.Errorf("update event: %w", err)
		}
		if rows == 0 {
			return models.Event{}, repository.ErrNotFound
		}
	}
	return s.store.GetEvent(ctx, id)
}

func (s *Events) Delete(ctx context.Context, id string) error {
	rows, err := s.store.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Events) ListForUser(ctx context.Context, userID string, f repository.EventFilter) ([]models.Event, error) {
	return s.store.ListUserEvents(ctx, userID, f)
}
