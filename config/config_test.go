package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_PATH", "USE_HTTPS", "SESSION_LIFETIME", "LOG_LEVEL",
		"OIDC_DOMAIN", "OIDC_CLIENT_ID", "OIDC_CLIENT_SECRET", "OIDC_CALLBACK_URL", "OIDC_SCOPES"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "crud_audit.db", cfg.DatabasePath)
	assert.False(t, cfg.UseHTTPS)
	assert.Equal(t, time.Hour, cfg.SessionLifetime)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.OIDC.Scopes)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even if empty
	for _, key := range []string{"PORT", "LOG_LEVEL", "OIDC_DOMAIN", "OIDC_SCOPES"} {
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nLOG_LEVEL=debug\nOIDC_DOMAIN=example.auth0.com\nOIDC_SCOPES=openid profile\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"PORT", "LOG_LEVEL", "OIDC_DOMAIN", "OIDC_SCOPES"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "example.auth0.com", cfg.OIDC.Domain)
	assert.Equal(t, []string{"openid", "profile"}, cfg.OIDC.Scopes)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_LIFETIME", "forever")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("SESSION_LIFETIME", "60")
	t.Setenv("LOG_LEVEL", "chatty")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
