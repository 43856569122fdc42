package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type EventPriority string

const (
	PriorityLow    EventPriority = "LOW"
	PriorityMedium EventPriority = "MEDIUM"
	PriorityHigh   EventPriority = "HIGH"
)

type EventStatus string

const (
	StatusScheduled  EventStatus = "SCHEDULED"
	StatusInProgress EventStatus = "IN_PROGRESS"
	StatusCompleted  EventStatus = "COMPLETED"
	StatusCancelled  EventStatus = "CANCELLED"
)

// User is the local identity record. Email is unique and immutable after
// creation; name and avatar are taken from the first Google profile seen.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Role      Role      `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// GoogleToken holds the Google-issued credentials for a user, latest-wins.
// The refresh token is only replaced when Google returns one.
type GoogleToken struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"uniqueIndex;size:36;not null"`
	AccessToken  string `gorm:"not null"`
	RefreshToken string
	Expiry       time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Account holds the locally signed refresh token for a user.
type Account struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"uniqueIndex;size:36;not null"`
	RefreshToken string `gorm:"not null"`
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Event is a calendar event owned by a single user. The ID is generated
// locally in Google Calendar's base32hex id alphabet so the same id can be
// reused when the event is mirrored to Google.
type Event struct {
	ID             string        `gorm:"primaryKey;size:32" json:"id"`
	Title          string        `gorm:"not null" json:"title"`
	EventTypeID    string        `gorm:"not null" json:"eventTypeId"`
	Description    string        `json:"description,omitempty"`
	Location       string        `json:"location,omitempty"`
	StartDate      time.Time     `gorm:"not null" json:"startDate"`
	EndDate        time.Time     `gorm:"not null" json:"endDate"`
	StartTime      string        `gorm:"size:8;not null" json:"startTime"`
	EndTime        string        `gorm:"size:8;not null" json:"endTime"`
	IsAllDay       bool          `json:"isAllDay"`
	Color          string        `gorm:"size:8;not null" json:"color"`
	Priority       EventPriority `gorm:"type:varchar(16);not null" json:"priority"`
	Status         EventStatus   `gorm:"type:varchar(16);not null" json:"status"`
	IsRecurring    bool          `json:"isRecurring"`
	RecurrenceRule string        `json:"recurrenceRule,omitempty"`
	UserID         string        `gorm:"size:36;index;not null" json:"userId"`
	Timezone       string        `gorm:"not null" json:"timezone"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
