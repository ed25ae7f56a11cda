package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DAILY_ROOM_URL", "wss://rooms.example.com/r1")
	t.Setenv("DAILY_API_KEY", "key-123")
	t.Setenv("LOGLEVEL", "warn")
	t.Setenv("METRICS_ADDR", ":9999")
	t.Setenv("MAX_DIAL_ATTEMPTS", "7")

	cfg := &Config{LogLevel: "debug", MetricsAddr: ":9091", MaxDialAttempts: 5}
	var settingsPath string
	require.NoError(t, applyEnv(cfg, &settingsPath))

	assert.Equal(t, "wss://rooms.example.com/r1", cfg.RoomURL)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ":9999", cfg.MetricsAddr)
	assert.Equal(t, 7, cfg.MaxDialAttempts)
}

func TestApplyEnvRejectsBadAttempts(t *testing.T) {
	t.Setenv("MAX_DIAL_ATTEMPTS", "many")

	cfg := &Config{}
	var settingsPath string
	assert.Error(t, applyEnv(cfg, &settingsPath))
}

func TestLoadSettingsInlineWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialout.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"sipUri":"sip:file@example.com"}]`), 0o644))

	settings, err := loadSettings(`[{"phoneNumber":"+15551234567"}]`, path)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "+15551234567", settings[0].PhoneNumber)
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialout.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"sipUri":"sip:file@example.com"}]`), 0o644))

	settings, err := loadSettings("", path)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "sip:file@example.com", settings[0].SIPURI)
}

func TestLoadSettingsAbsent(t *testing.T) {
	settings, err := loadSettings("", "")
	require.NoError(t, err)
	assert.Nil(t, settings)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := loadSettings("", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
