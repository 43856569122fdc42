package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"eventplannerservice/pkg/gcal"
	"eventplannerservice/pkg/models"
	"eventplannerservice/pkg/repository"
	"eventplannerservice/pkg/services"
)

const dateLayout = "2006-01-02"

// Colors must be exactly 3 or 6 hex digits; the built-in hexcolor tag also
// admits 4- and 8-digit forms, which the color column cannot hold.
var colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

type eventService interface {
	Create(ctx context.Context, in services.CreateEventInput) (models.Event, gcal.SyncResult, error)
	Get(ctx context.Context, id string) (models.Event, error)
	Update(ctx context.Context, id string, in services.UpdateEventInput) (models.Event, error)
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string, f repository.EventFilter) ([]models.Event, error)
}

// Event serves the event CRUD surface.
type Event struct {
	srv      eventService
	validate *validator.Validate
}

func NewEvent(srv eventService) *Event {
	v := validator.New()
	_ = v.RegisterValidation("eventcolor", func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	})
	return &Event{srv: srv, validate: v}
}

func (h *Event) Register(r fiber.Router) {
	r.Post("/create-event", h.handleCreate)
	r.Get("/user-events/:userId", h.handleListForUser)
	r.Get("/:id", h.handleGet)
	r.Put("/:id", h.handleUpdate)
	r.Delete("/:id", h.handleDelete)
}

type createEventRequest struct {
	Title          string `json:"title" validate:"required"`
	EventTypeID    string `json:"eventTypeId" validate:"required"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	StartDate      string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"endDate" validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime        string `json:"endTime" validate:"required,datetime=15:04"`
	IsAllDay       bool   `json:"isAllDay"`
	Color          string `json:"color" validate:"required,eventcolor"`
	Priority       string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
	Status         string `json:"status" validate:"required,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
	IsRecurring    *bool  `json:"isRecurring" validate:"required"`
	RecurrenceRule string `json:"recurrenceRule"`
	UserID         string `json:"userId" validate:"required"`
	Timezone       string `json:"timezone" validate:"required"`
}

type googleSyncResponse struct {
	IsGoogleSync      bool   `json:"isGoogleSync"`
	GoogleSyncMessage string `json:"googleSyncMessage"`
}

func (h *Event) handleCreate(c *fiber.Ctx) error {
	var req createEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid input data",
			"errors":  []string{"Malformed request body"},
		})
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			messages := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				messages = append(messages, validationMessage(fe))
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid input data",
				"errors":  messages,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input data"})
	}

	startDate, _ := time.Parse(dateLayout, req.StartDate)
	endDate, _ := time.Parse(dateLayout, req.EndDate)

	_, res, err := h.srv.Create(c.Context(), services.CreateEventInput{
		Title:          req.Title,
		EventTypeID:    req.EventTypeID,
		Description:    req.Description,
		Location:       req.Location,
		StartDate:      startDate,
		EndDate:        endDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsAllDay:       req.IsAllDay,
		Color:          req.Color,
		Priority:       models.EventPriority(req.Priority),
		Status:         models.EventStatus(req.Status),
		IsRecurring:    *req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
		UserID:         req.UserID,
		Timezone:       req.Timezone,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Event creation failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event created successfully",
		"googleSync": googleSyncResponse{
			IsGoogleSync:      res.Synced,
			GoogleSyncMessage: res.Message,
		},
	})
}

func (h *Event) handleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	event, err := h.srv.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Event not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch event"})
	}
	return c.JSON(fiber.Map{"event": event})
}

type updateEventRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1"`
	EventTypeID    *string `json:"eventTypeId" validate:"omitempty,min=1"`
	Description    *string `json:"description"`
	Location       *string `json:"location"`
	StartDate      *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate        *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime      *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime        *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	IsAllDay       *bool   `json:"isAllDay"`
	Color          *string `json:"color" validate:"omitempty,eventcolor"`
	Priority       *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status         *string `json:"status" validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
	IsRecurring    *bool   `json:"isRecurring"`
	RecurrenceRule *string `json:"recurrenceRule"`
	Timezone       *string `json:"timezone"`
}

func (h *Event) handleUpdate(c *fiber.Ctx) error {
	id := c.Params("id")

	var req updateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input data"})
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			messages := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				messages = append(messages, validationMessage(fe))
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid input data",
				"errors":  messages,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input data"})
	}

	in := services.UpdateEventInput{
		Title:          req.Title,
		EventTypeID:    req.EventTypeID,
		Description:    req.Description,
		Location:       req.Location,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsAllDay:       req.IsAllDay,
		Color:          req.Color,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
		Timezone:       req.Timezone,
	}
	if req.StartDate != nil {
		d, _ := time.Parse(dateLayout, *req.StartDate)
		in.StartDate = &d
	}
	if req.EndDate != nil {
		d, _ := time.Parse(dateLayout, *req.EndDate)
		in.EndDate = &d
	}
	if req.Priority != nil {
		p := models.EventPriority(*req.Priority)
		in.Priority = &p
	}
	if req.Status != nil {
		s := models.EventStatus(*req.Status)
		in.Status = &s
	}

	event, err := h.srv.Update(c.Context(), id, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": fmt.Sprintf("Event with ID %s not found", id)})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update event"})
	}
	return c.JSON(fiber.Map{"event": event})
}

func (h *Event) handleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.srv.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": fmt.Sprintf("Event with ID %s not found", id)})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to delete event"})
	}
	return c.JSON(fiber.Map{"message": "Event deleted successfully"})
}

func (h *Event) handleListForUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "User ID is required"})
	}

	var f repository.EventFilter
	if s := c.Query("startDate"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid startDate"})
		}
		f.Start = &d
	}
	if s := c.Query("endDate"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid endDate"})
		}
		f.End = &d
	}
	f.EventTypeID = c.Query("eventTypeId")

	events, err := h.srv.ListForUser(c.Context(), userID, f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error fetching events"})
	}
	return c.JSON(fiber.Map{"events": events})
}

// validationMessage renders one human-readable message per failing field,
// mirroring the field-level messages the front end expects.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "eventcolor":
		return "Invalid color format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match format %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
