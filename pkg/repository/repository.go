// Package repository is the persistence boundary. Services depend on the
// Store interface; the GORM implementation lives in gorm.go.
package repository

import (
	"context"
	"errors"
	"time"

	"eventplannerservice/pkg/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// GoogleTokenUpdate carries the fields overwritten on a repeat login.
// RefreshToken is nil when Google omitted it this round, in which case the
// stored value is left untouched.
type GoogleTokenUpdate struct {
	AccessToken  string
	Expiry       time.Time
	RefreshToken *string
}

// EventFilter narrows a user's event listing. Start/End bound the event
// dates; EventTypeID filters by type. Zero values mean no filter.
type EventFilter struct {
	Start       *time.Time
	End         *time.Time
	EventTypeID string
}

type Store interface {
	// WithTx runs fn inside a single transaction; any error rolls back
	// every write made through the transactional store.
	WithTx(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)

	CreateGoogleToken(ctx context.Context, t *models.GoogleToken) error
	UpdateGoogleToken(ctx context.Context, userID string, upd GoogleTokenUpdate) (int64, error)
	GetGoogleToken(ctx context.Context, userID string) (models.GoogleToken, error)

	CreateAccount(ctx context.Context, a *models.Account) error
	UpdateAccount(ctx context.Context, userID, refreshToken string, expiresAt time.Time) (int64, error)

	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id string) (models.Event, error)
	UpdateEvent(ctx context.Context, id string, changes map[string]interface{}) (int64, error)
	DeleteEvent(ctx context.Context, id string) (int64, error)
	ListUserEvents(ctx context.Context, userID string, f EventFilter) ([]models.Event, error)
}
