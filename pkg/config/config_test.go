package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "eventplanner")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://api.example.com/api/v1/auth/oauth2callback")
	t.Setenv("FRONTEND_AUTH_CALLBACK_URL", "https://app.example.com/auth/callback")
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "client-id", cfg.GoogleClientID)
	assert.Equal(t, "https://app.example.com/auth/callback", cfg.FrontendAuthCallbackURL)
	assert.Equal(t, "access-secret", cfg.JWTSecret)
	assert.Equal(t, "refresh-secret", cfg.JWTRefreshSecret)

	// defaults
	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Origins())
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestOrigins(t *testing.T) {
	cfg := Config{AllowedOrigins: "https://a.example.com, https://b.example.com"}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Origins())
}
