package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/var/lib/chaptered"},
		Store:  StoreConfig{Driver: StoreDriverBadger},
		Auth:   AuthConfig{RateLimitPerMinute: 20},
		Stats:  StatsConfig{MoodWindowDays: 30},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "sqlite driver", mutate: func(c *Config) { c.Store.Driver = StoreDriverSQLite }},
		{name: "missing env", mutate: func(c *Config) { c.App.Environment = "" }, wantErr: "ENV is required"},
		{name: "unknown env", mutate: func(c *Config) { c.App.Environment = "test" }, wantErr: "invalid environment"},
		{name: "env is case sensitive", mutate: func(c *Config) { c.App.Environment = "PRODUCTION" }, wantErr: "invalid environment"},
		{name: "log level any case", mutate: func(c *Config) { c.Logger.Level = "DEBUG" }},
		{name: "bad log level", mutate: func(c *Config) { c.Logger.Level = "trace" }, wantErr: "invalid log level"},
		{name: "bad driver", mutate: func(c *Config) { c.Store.Driver = "mongo" }, wantErr: "invalid store driver"},
		{name: "empty data path", mutate: func(c *Config) { c.Data.BasePath = "" }, wantErr: "data path"},
		{name: "zero mood window", mutate: func(c *Config) { c.Stats.MoodWindowDays = 0 }, wantErr: "invalid mood window"},
		{name: "zero rate limit", mutate: func(c *Config) { c.Auth.RateLimitPerMinute = 0 }, wantErr: "invalid auth rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load([]string{"-data-path", dir, "-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Data.BasePath)
	assert.Equal(t, StoreDriverBadger, cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 720*time.Hour, cfg.Auth.RefreshTokenDuration)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 30, cfg.Stats.MoodWindowDays)
	assert.True(t, cfg.Catalog.Enabled)
	assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.Catalog.BaseURL)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`
# comment
SERVER_PORT=9000
STORE_DRIVER="sqlite"
CORS_ALLOWED_ORIGINS=http://localhost:3000, https://chaptered.app
`), 0o600))

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load([]string{"-data-path", dir, "-env-file", envFile, "-port", "7000", "-mood-window-days", "7"})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port, "flag beats .env")
	assert.Equal(t, "warn", cfg.Logger.Level, "environment value used")
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver, ".env fills unset values")
	assert.Equal(t, []string{"http://localhost:3000", "https://chaptered.app"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 7, cfg.Stats.MoodWindowDays)

	os.Unsetenv("STORE_DRIVER")
	os.Unsetenv("CORS_ALLOWED_ORIGINS")
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()

	_, err := Load([]string{"-data-path", dir, "-env-file", "", "-access-token-duration", "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_DURATION")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("/a/b/../c", "")
	require.NoError(t, err)
	assert.Equal(t, "/a/c", got)
}

func TestGetBoolAndIntConfigValue(t *testing.T) {
	t.Setenv("CHAPTERED_TEST_BOOL", "YES")
	t.Setenv("CHAPTERED_TEST_INT", "abc")

	assert.True(t, getBoolConfigValue("", "CHAPTERED_TEST_BOOL", false))
	assert.False(t, getBoolConfigValue("off", "CHAPTERED_TEST_BOOL", true))
	assert.Equal(t, 5, getIntConfigValue("", "CHAPTERED_TEST_INT", 5))
	assert.Equal(t, 12, getIntConfigValue("12", "CHAPTERED_TEST_INT", 5))
}
