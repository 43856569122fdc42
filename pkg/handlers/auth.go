// Package handlers contains the Fiber HTTP handlers.
package handlers

import (
	"context"
	"log"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"eventplannerservice/pkg/apperr"
	"eventplannerservice/pkg/services"
	"eventplannerservice/pkg/token"
)

type authService interface {
	LoginURL() string
	HandleCallback(ctx context.Context, code string) (services.Session, error)
}

// Auth serves the Google login redirect and the OAuth callback. The
// callback always degrades to a redirect carrying the outcome, or to JSON
// when the configured callback URL cannot be used.
type Auth struct {
	srv         authService
	callbackURL string
}

func NewAuth(srv authService, callbackURL string) *Auth {
	return &Auth{srv: srv, callbackURL: callbackURL}
}

func (h *Auth) Register(r fiber.Router) {
	r.Get("/google-auth", h.handleGoogleAuth)
	r.Get("/oauth2callback", h.handleCallback)
}

func (h *Auth) handleGoogleAuth(c *fiber.Ctx) error {
	return c.Redirect(h.srv.LoginURL(), fiber.StatusFound)
}

func (h *Auth) handleCallback(c *fiber.Ctx) error {
	sess, err := h.srv.HandleCallback(c.Context(), c.Query("code"))
	if err != nil {
		log.Printf("google oauth callback: %v", err)
		return h.deliverError(c, apperr.Normalize(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    sess.RefreshToken,
		Path:     "/",
		MaxAge:   int(token.RefreshTokenTTL.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	u, ok := h.parseCallbackURL()
	if !ok {
		// same envelope as the error fallback, with the token as data
		return c.JSON(fiber.Map{
			"success": true,
			"message": "User authenticated successfully",
			"data":    fiber.Map{"token": sess.AccessToken},
		})
	}

	q := u.Query()
	q.Set("status", "success")
	q.Set("message", "User authenticated successfully")
	q.Set("token", sess.AccessToken)
	u.RawQuery = q.Encode()
	return c.Redirect(u.String(), fiber.StatusFound)
}

func (h *Auth) deliverError(c *fiber.Ctx, e *apperr.Error) error {
	u, ok := h.parseCallbackURL()
	if !ok {
		return c.Status(e.Status).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"name":    string(e.Kind),
				"message": e.Message,
			},
			"data": nil,
		})
	}

	q := u.Query()
	q.Set("status", "error")
	q.Set("error", string(e.Kind))
	q.Set("message", e.Message)
	q.Set("code", strconv.Itoa(e.Status))
	q.Set("source", "google_oauth_callback")
	u.RawQuery = q.Encode()
	return c.Redirect(u.String(), fiber.StatusFound)
}

func (h *Auth) parseCallbackURL() (*url.URL, bool) {
	u, err := url.Parse(h.callbackURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}
