// Package googleauth wraps the Google OAuth2 flow: authorization URL
// construction, code exchange and userinfo lookup. A single failed exchange
// or profile fetch aborts the callback; no retries are attempted.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const userInfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"

// Profile is the subset of the Google userinfo response the service uses.
type Profile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Client struct {
	oauth       *oauth2.Config
	userInfoURL string
}

type Option func(*Client)

// WithEndpoint overrides the OAuth endpoint, used by tests.
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(c *Client) {
		c.oauth.Endpoint = ep
	}
}

// WithUserInfoURL overrides the userinfo endpoint, used by tests.
func WithUserInfoURL(url string) Option {
	return func(c *Client) {
		c.userInfoURL = url
	}
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"openid",
				"email",
				"profile",
				calendar.CalendarEventsScope,
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: userInfoEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthCodeURL builds the Google authorization URL. Offline access with
// forced consent makes Google issue a refresh token on every consent.
func (c *Client) AuthCodeURL() string {
	return c.oauth.AuthCodeURL("state-token",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for Google tokens.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

// FetchProfile retrieves the authenticated user's profile.
func (c *Client) FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error) {
	resp, err := c.oauth.Client(ctx, tok).Get(c.userInfoURL)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("fetch user info: unexpected status %d", resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decode user info: %w", err)
	}
	return p, nil
}

// HTTPClient returns an HTTP client authenticated with stored Google
// credentials, refreshing them transparently when expired.
func (c *Client) HTTPClient(ctx context.Context, tok *oauth2.Token) *http.Client {
	return c.oauth.Client(ctx, tok)
}
