package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"eventplannerservice/pkg/models"
	"eventplannerservice/pkg/repository"
)

// fakeStore is an in-memory repository.Store. WithTx applies writes to a
// copy and only merges them back on success, mirroring transaction
// rollback.
type fakeStore struct {
	users    map[string]models.User        // by user id
	tokens   map[string]models.GoogleToken // by user id
	accounts map[string]models.Account     // by user id
	events   map[string]models.Event       // by event id

	onCreateUser    func() error
	failCreateToken error
	failCreateAcct  error
	failCreateEvent error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]models.User{},
		tokens:   map[string]models.GoogleToken{},
		accounts: map[string]models.Account{},
		events:   map[string]models.Event{},
	}
}

func (f *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		users:           map[string]models.User{},
		tokens:          map[string]models.GoogleToken{},
		accounts:        map[string]models.Account{},
		events:          map[string]models.Event{},
		onCreateUser:    f.onCreateUser,
		failCreateToken: f.failCreateToken,
		failCreateAcct:  f.failCreateAcct,
		failCreateEvent: f.failCreateEvent,
	}
	for k, v := range f.users {
		c.users[k] = v
	}
	for k, v := range f.tokens {
		c.tokens[k] = v
	}
	for k, v := range f.accounts {
		c.accounts[k] = v
	}
	for k, v := range f.events {
		c.events[k] = v
	}
	return c
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	tx := f.clone()
	if err := fn(tx); err != nil {
		return err
	}
	f.users, f.tokens, f.accounts, f.events = tx.users, tx.tokens, tx.accounts, tx.events
	return nil
}

func (f *fakeStore) CreateUser(ctx context.Context, u *models.User) error {
	if f.onCreateUser != nil {
		if err := f.onCreateUser(); err != nil {
			return err
		}
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f *fakeStore) GetUser(ctx context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateGoogleToken(ctx context.Context, t *models.GoogleToken) error {
	if f.failCreateToken != nil {
		return f.failCreateToken
	}
	if _, ok := f.tokens[t.UserID]; ok {
		return repository.ErrDuplicate
	}
	f.tokens[t.UserID] = *t
	return nil
}

func (f *fakeStore) UpdateGoogleToken(ctx context.Context, userID string, upd repository.GoogleTokenUpdate) (int64, error) {
	t, ok := f.tokens[userID]
	if !ok {
		return 0, nil
	}
	t.AccessToken = upd.AccessToken
	t.Expiry = upd.Expiry
	if upd.RefreshToken != nil {
		t.RefreshToken = *upd.RefreshToken
	}
	f.tokens[userID] = t
	return 1, nil
}

func (f *fakeStore) GetGoogleToken(ctx context.Context, userID string) (models.GoogleToken, error) {
	t, ok := f.tokens[userID]
	if !ok {
		return models.GoogleToken{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) CreateAccount(ctx context.Context, a *models.Account) error {
	if f.failCreateAcct != nil {
		return f.failCreateAcct
	}
	if _, ok := f.accounts[a.UserID]; ok {
		return repository.ErrDuplicate
	}
	f.accounts[a.UserID] = *a
	return nil
}

func (f *fakeStore) UpdateAccount(ctx context.Context, userID, refreshToken string, expiresAt time.Time) (int64, error) {
	a, ok := f.accounts[userID]
	if !ok {
		return 0, nil
	}
	a.RefreshToken = refreshToken
	a.ExpiresAt = expiresAt
	f.accounts[userID] = a
	return 1, nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, e *models.Event) error {
	if f.failCreateEvent != nil {
		return f.failCreateEvent
	}
	f.events[e.ID] = *e
	return nil
}

func (f *fakeStore) GetEvent(ctx context.Context, id string) (models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return models.Event{}, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) UpdateEvent(ctx context.Context, id string, changes map[string]interface{}) (int64, error) {
	e, ok := f.events[id]
	if !ok {
		return 0, nil
	}
	if v, ok := changes["title"]; ok {
		e.Title = v.(string)
	}
	if v, ok := changes["event_type_id"]; ok {
		e.EventTypeID = v.(string)
	}
	if v, ok := changes["description"]; ok {
		e.Description = v.(string)
	}
	if v, ok := changes["location"]; ok {
		e.Location = v.(string)
	}
	if v, ok := changes["start_date"]; ok {
		e.StartDate = v.(time.Time)
	}
	if v, ok := changes["end_date"]; ok {
		e.EndDate = v.(time.Time)
	}
	if v, ok := changes["start_time"]; ok {
		e.StartTime = v.(string)
	}
	if v, ok := changes["end_time"]; ok {
		e.EndTime = v.(string)
	}
	if v, ok := changes["is_all_day"]; ok {
		e.IsAllDay = v.(bool)
	}
	if v, ok := changes["status"]; ok {
		e.Status = v.(models.EventStatus)
	}
	if v, ok := changes["priority"]; ok {
		e.Priority = v.(models.EventPriority)
	}
	if v, ok := changes["color"]; ok {
		e.Color = v.(string)
	}
	if v, ok := changes["is_recurring"]; ok {
		e.IsRecurring = v.(bool)
	}
	if v, ok := changes["recurrence_rule"]; ok {
		e.RecurrenceRule = v.(string)
	}
	if v, ok := changes["timezone"]; ok {
		e.Timezone = v.(string)
	}
	f.events[id] = e
	return 1, nil
}

func (f *fakeStore) DeleteEvent(ctx context.Context, id string) (int64, error) {
	if _, ok := f.events[id]; !ok {
		return 0, nil
	}
	delete(f.events, id)
	return 1, nil
}

func (f *fakeStore) ListUserEvents(ctx context.Context, userID string, filter repository.EventFilter) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.UserID != userID {
			continue
		}
		if filter.Start != nil && e.StartDate.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && e.EndDate.After(*filter.End) {
			continue
		}
		if filter.EventTypeID != "" && e.EventTypeID != filter.EventTypeID {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
