package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/blogem/crud-audit/authenticator"
)

// Config is the runtime configuration, read from the environment
type Config struct {
	Port            string
	DatabasePath    string
	UseHTTPS        bool
	SessionLifetime time.Duration
	LogLevel        slog.Level
	OIDC            authenticator.Config
}

// Load reads a .env file if present, then the environment
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load the env vars: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "crud_audit.db"),
		UseHTTPS:     os.Getenv("USE_HTTPS") == "true",
		OIDC: authenticator.Config{
			Domain:       os.Getenv("OIDC_DOMAIN"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			CallbackURL:  os.Getenv("OIDC_CALLBACK_URL"),
		},
	}

	lifetime, err := strconv.Atoi(getEnv("SESSION_LIFETIME", "3600"))
	if err != nil || lifetime <= 0 {
		return nil, fmt.Errorf("invalid SESSION_LIFETIME %q: must be a positive number of seconds", os.Getenv("SESSION_LIFETIME"))
	}
	cfg.SessionLifetime = time.Duration(lifetime) * time.Second

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if scopes := os.Getenv("OIDC_SCOPES"); scopes != "" {
		cfg.OIDC.Scopes = strings.Fields(scopes)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
