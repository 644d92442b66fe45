package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, 20, cfg.RateLimit)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "photos", cfg.Storage.Bucket)
	assert.Equal(t, 86400*30, cfg.Session.MaxAge)
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-1.5-flash"}, cfg.AI.Models)
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
addr: ":8080"
database:
  driver: sqlite
  dsn: "file:dev.db"
storage:
  account_id: abc123
  bucket: media
ai:
  models: [gemini-2.0-flash]
`)

	t.Setenv("DSN", "file:override.db")
	t.Setenv("RATE_LIMIT", "50")
	t.Setenv("AI_MODELS", "first, second ,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:override.db", cfg.Database.DSN)
	assert.Equal(t, 50, cfg.RateLimit)
	assert.Equal(t, "media", cfg.Storage.Bucket)
	assert.Equal(t, "https://abc123.r2.cloudflarestorage.com", cfg.Storage.Endpoint)
	assert.Equal(t, []string{"first", "second"}, cfg.AI.Models)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("SECURE_COOKIES", "maybe")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.RateLimit)
	assert.False(t, cfg.Session.Secure)
}

func TestLoadBadYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "addr: [unterminated")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
