package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"eventplannerservice/pkg/apperr"
	"eventplannerservice/pkg/googleauth"
	"eventplannerservice/pkg/models"
	"eventplannerservice/pkg/repository"
	"eventplannerservice/pkg/token"
)

// googleProvider is the slice of the Google client the auth flow needs.
type googleProvider interface {
	AuthCodeURL() string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, tok *oauth2.Token) (googleauth.Profile, error)
}

// Session is the outcome of a successful callback: the reconciled user and
// a freshly minted local token pair.
type Session struct {
	User         models.User
	AccessToken  string
	RefreshToken string
}

// Auth reconciles Google identities with local users and issues session
// tokens.
type Auth struct {
	google  googleProvider
	store   repository.Store
	access  token.Issuer
	refresh token.Issuer
}

func NewAuth(google googleProvider, store repository.Store, access, refresh token.Issuer) *Auth {
	return &Auth{google: google, store: store, access: access, refresh: refresh}
}

// LoginURL returns the Google authorization URL.
func (s *Auth) LoginURL() string {
	return s.google.AuthCodeURL()
}

// HandleCallback drives the whole OAuth callback: code exchange, profile
// fetch, user reconciliation and local token minting. Typed application
// errors carry their own status; anything else is normalized by the
// handler.
func (s *Auth) HandleCallback(ctx context.Context, code string) (Session, error) {
	if code == "" {
		return Session{}, apperr.New(apperr.KindMissingAuthCode, http.StatusBadRequest, "Authorization code is missing")
	}

	tok, err := s.google.Exchange(ctx, code)
	if err != nil {
		return Session{}, fmt.Errorf("exchange code: %w", err)
	}

	profile, err := s.google.FetchProfile(ctx, tok)
	if err != nil {
		return Session{}, fmt.Errorf("fetch profile: %w", err)
	}

	usr, err := s.store.FindUserByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		return s.login(ctx, usr, tok)
	case errors.Is(err, repository.ErrNotFound):
		sess, regErr := s.register(ctx, profile, tok)
		if errors.Is(regErr, repository.ErrDuplicate) {
			// A concurrent callback created the user first; converge on
			// the update branch instead of failing.
			usr, err = s.store.FindUserByEmail(ctx, profile.Email)
			if err != nil {
				return Session{}, fmt.Errorf("find user after conflict: %w", err)
			}
			return s.login(ctx, usr, tok)
		}
		return sess, regErr
	default:
		return Session{}, fmt.Errorf("find user by email: %w", err)
	}
}

// register is the first-login branch: user, Google tokens and local account
// are created inside one transaction, so a failed step leaves no partial
// identity behind.
func (s *Auth) register(ctx context.Context, p googleauth.Profile, tok *oauth2.Token) (Session, error) {
	usr := models.User{
		Email:  p.Email,
		Name:   p.Name,
		Avatar: p.Picture,
		Role:   models.RoleUser,
	}

	var refreshToken string
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateUser(ctx, &usr); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return err
			}
			return apperr.Wrap(apperr.KindUserCreation, http.StatusInternalServerError, "Failed to create new user", err)
		}

		if err := tx.CreateGoogleToken(ctx, &models.GoogleToken{
			UserID:       usr.ID,
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			Expiry:       tok.Expiry,
		}); err != nil {
			return apperr.Wrap(apperr.KindGoogleTokensCreation, http.StatusInternalServerError, "Failed to store Google tokens", err)
		}

		rt, err := s.refresh.Issue(sessionPayload(usr))
		if err != nil {
			return apperr.Wrap(apperr.KindAccountCreation, http.StatusInternalServerError, "Failed to create new account", err)
		}
		refreshToken = rt

		if err := tx.CreateAccount(ctx, &models.Account{
			UserID:       usr.ID,
			RefreshToken: rt,
			ExpiresAt:    time.Now().Add(token.RefreshTokenTTL),
		}); err != nil {
			return apperr.Wrap(apperr.KindAccountCreation, http.StatusInternalServerError, "Failed to create new account", err)
		}
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	accessToken, err := s.access.Issue(sessionPayload(usr))
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	return Session{User: usr, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// login is the repeat-login branch: the local account and the stored Google
// tokens are refreshed in place. Google's refresh token is only overwritten
// when it returned one this round.
func (s *Auth) login(ctx context.Context, usr models.User, tok *oauth2.Token) (Session, error) {
	refreshToken, err := s.refresh.Issue(sessionPayload(usr))
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}

	rows, err := s.store.UpdateAccount(ctx, usr.ID, refreshToken, time.Now().Add(token.RefreshTokenTTL))
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindAccountUpdate, http.StatusInternalServerError, "Failed to update account", err)
	}
	if rows == 0 {
		return Session{}, apperr.New(apperr.KindAccountUpdate, http.StatusInternalServerError, "Failed to update account")
	}

	upd := repository.GoogleTokenUpdate{
		AccessToken: tok.AccessToken,
		Expiry:      tok.Expiry,
	}
	if tok.RefreshToken != "" {
		upd.RefreshToken = &tok.RefreshToken
	}
	rows, err = s.store.UpdateGoogleToken(ctx, usr.ID, upd)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindGoogleTokensUpdate, http.StatusInternalServerError, "Failed to update Google tokens", err)
	}
	if rows == 0 {
		return Session{}, apperr.New(apperr.KindGoogleTokensUpdate, http.StatusInternalServerError, "Failed to update Google tokens")
	}

	accessToken, err := s.access.Issue(sessionPayload(usr))
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	return Session{User: usr, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func sessionPayload(u models.User) token.Payload {
	return token.Payload{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
}
