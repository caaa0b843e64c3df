package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_BACKEND_URL", "http://localhost:3000/api/")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 5, cfg.Login.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Login.LockoutDuration)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 30*24*time.Hour, cfg.Store.Retention)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Cookie.Secure)
}

func TestServerConfig_Timeouts(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	})

	t.Run("custom values", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SERVER_READ_TIMEOUT", "30s")
		t.Setenv("SERVER_WRITE_TIMEOUT", "45s")
		t.Setenv("SERVER_IDLE_TIMEOUT", "120s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	})

	t.Run("invalid duration falls back", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing backend url", map[string]string{}, "AUTH_BACKEND_URL is required"},
		{"relative backend url", map[string]string{"AUTH_BACKEND_URL": "/api"}, "absolute http(s) URL"},
		{"unknown driver", map[string]string{"AUTH_BACKEND_URL": "http://api", "STORE_DRIVER": "redis"}, "STORE_DRIVER"},
		{"postgres needs password", map[string]string{"AUTH_BACKEND_URL": "http://api", "STORE_DRIVER": "postgres"}, "DB_PASSWORD"},
		{"retention shorter than lockout", map[string]string{"AUTH_BACKEND_URL": "http://api", "CLIENT_STATE_RETENTION": "10m", "LOGIN_LOCKOUT_DURATION": "15m"}, "CLIENT_STATE_RETENTION"},
		{"zero attempts", map[string]string{"AUTH_BACKEND_URL": "http://api", "LOGIN_MAX_ATTEMPTS": "0"}, "LOGIN_MAX_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUTH_BACKEND_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_PostgresDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Contains(t, cfg.Database.DSN(), "dbname=ajustes")
}

func TestParseAllowedOrigins(t *testing.T) {
	t.Run("explicit list", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, parseAllowedOrigins("production"))
	})

	t.Run("production default is empty", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGINS", "")
		assert.Empty(t, parseAllowedOrigins("production"))
	})

	t.Run("development default", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGINS", "")
		assert.Contains(t, parseAllowedOrigins("development"), "http://localhost:5173")
	})
}

func TestLoad_RetentionEqualToLockout(t *testing.T) {
	setRequired(t)
	t.Setenv("CLIENT_STATE_RETENTION", "15m")
	t.Setenv("LOGIN_LOCKOUT_DURATION", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Login.LockoutDuration, cfg.Store.Retention)
}
