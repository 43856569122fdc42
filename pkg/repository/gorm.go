package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"eventplannerservice/pkg/models"
)

// Gorm is the GORM-backed Store. Requires gorm.Config.TranslateError so
// unique-index violations surface as gorm.ErrDuplicatedKey.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) WithTx(ctx context.Context, fn func(Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	return translate(g.db.WithContext(ctx).Create(u).Error)
}

func (g *Gorm) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := g.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return u, translate(err)
}

func (g *Gorm) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return u, translate(err)
}

func (g *Gorm) CreateGoogleToken(ctx context.Context, t *models.GoogleToken) error {
	return translate(g.db.WithContext(ctx).Create(t).Error)
}

func (g *Gorm) UpdateGoogleToken(ctx context.Context, userID string, upd GoogleTokenUpdate) (int64, error) {
	changes := map[string]interface{}{
		"access_token": upd.AccessToken,
		"expiry":       upd.Expiry,
	}
	if upd.RefreshToken != nil {
		changes["refresh_token"] = *upd.RefreshToken
	}
	res := g.db.WithContext(ctx).Model(&models.GoogleToken{}).
		Where("user_id = ?", userID).
		Updates(changes)
	return res.RowsAffected, translate(res.Error)
}

func (g *Gorm) GetGoogleToken(ctx context.Context, userID string) (models.GoogleToken, error) {
	var t models.GoogleToken
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error
	return t, translate(err)
}

func (g *Gorm) CreateAccount(ctx context.Context, a *models.Account) error {
	return translate(g.db.WithContext(ctx).Create(a).Error)
}

func (g *Gorm) UpdateAccount(ctx context.Context, userID, refreshToken string, expiresAt time.Time) (int64, error) {
	res := g.db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token": refreshToken,
			"expires_at":    expiresAt,
		})
	return res.RowsAffected, translate(res.Error)
}

func (g *Gorm) CreateEvent(ctx context.Context, e *models.Event) error {
	return translate(g.db.WithContext(ctx).Create(e).Error)
}

func (g *Gorm) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var e models.Event
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	return e, translate(err)
}

func (g *Gorm) UpdateEvent(ctx context.Context, id string, changes map[string]interface{}) (int64, error) {
	res := g.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		Updates(changes)
	return res.RowsAffected, translate(res.Error)
}

func (g *Gorm) DeleteEvent(ctx context.Context, id string) (int64, error) {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	return res.RowsAffected, translate(res.Error)
}

func (g *Gorm) ListUserEvents(ctx context.Context, userID string, f EventFilter) ([]models.Event, error) {
	q := g.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.Start != nil {
		q = q.Where("start_date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("end_date <= ?", *f.End)
	}
	if f.EventTypeID != "" {
		q = q.Where("event_type_id = ?", f.EventTypeID)
	}

	var events []models.Event
	if err := q.Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list user events: %w", err)
	}
	return events, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
