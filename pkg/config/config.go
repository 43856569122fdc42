package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every setting the service needs. It is loaded and
// validated once at startup and handed to components explicitly; nothing
// reads configuration at call time.
type Config struct {
	Port       string `mapstructure:"PORT"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBName     string `mapstructure:"DB_NAME"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBPassword string `mapstructure:"DB_PASSWORD"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `mapstructure:"GOOGLE_REDIRECT_URI"`

	FrontendAuthCallbackURL string `mapstructure:"FRONTEND_AUTH_CALLBACK_URL"`

	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_SECRET"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
}

var envs = []string{
	"PORT", "DB_HOST", "DB_NAME", "DB_USER", "DB_PORT", "DB_PASSWORD",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URI",
	"FRONTEND_AUTH_CALLBACK_URL", "JWT_SECRET", "JWT_REFRESH_SECRET",
	"ALLOWED_ORIGINS",
}

var required = []string{
	"DB_HOST", "DB_NAME", "DB_USER", "DB_PORT", "DB_PASSWORD",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URI",
	"FRONTEND_AUTH_CALLBACK_URL", "JWT_SECRET", "JWT_REFRESH_SECRET",
}

func LoadConfig() (Config, error) {
	var config Config
	viper.AddConfigPath("./")
	viper.SetConfigFile(".env")
	viper.ReadInConfig()
	viper.SetDefault("PORT", "8001")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	for _, env := range envs {
		if err := viper.BindEnv(env); err != nil {
			return config, err
		}
	}
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	var missing []string
	for _, env := range required {
		if viper.GetString(env) == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return config, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return config, nil
}

// Origins splits the allowed CORS origins list.
func (c Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
