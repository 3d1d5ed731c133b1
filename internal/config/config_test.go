package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/ezresume",
		"autosave_quiet_ms": 1500
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/ezresume", cfg.DatabaseURL)
	assert.Equal(t, 1500, cfg.AutosaveQuietMS)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{ not json }`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero value", Config{}, false},
		{"typical", Config{Port: 8080, AutosaveQuietMS: 3000}, false},
		{"port too large", Config{Port: 70000}, true},
		{"negative port", Config{Port: -1}, true},
		{"negative quiet window", Config{AutosaveQuietMS: -5}, true},
		{"negative idle minutes", Config{SessionIdleMinutes: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_MergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9090}
	merged := cfg.MergeWithDefaults(Config{
		Port:        8080,
		DatabaseURL: "postgres://localhost/ezresume",
	})

	assert.Equal(t, 9090, merged.Port, "explicit value wins over default")
	assert.Equal(t, "postgres://localhost/ezresume", merged.DatabaseURL)
	assert.Equal(t, 3000, merged.AutosaveQuietMS, "built-in autosave default applies")
	assert.Equal(t, 30, merged.SessionIdleMinutes)
}

func TestConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := Config{Port: 8080, DatabaseURL: "postgres://file/db"}
	require.NoError(t, cfg.FromEnv())

	assert.Equal(t, 7070, cfg.Port, "environment wins over file")
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
}

func TestConfig_FromEnv_BadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	var cfg Config
	assert.Error(t, cfg.FromEnv())
}

func TestConfig_Durations(t *testing.T) {
	cfg := Config{AutosaveQuietMS: 1500, SessionIdleMinutes: 10}
	assert.Equal(t, 1500*time.Millisecond, cfg.QuietWindow())
	assert.Equal(t, 10*time.Minute, cfg.SessionIdleTimeout())
}
