package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemode/internal/gaming/profiles"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GAMEMODE_SESSION_SUSPEND_BROWSERS", "true")
	t.Setenv("GAMEMODE_SESSION_SUSPEND_SHELL", "false")
	t.Setenv("GAMEMODE_HARDWARE_HAGS", "true")
	t.Setenv("GAMEMODE_MONITOR_AUTO_DISABLE", "false")
	t.Setenv("GAMEMODE_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	opts := cfg.Options()
	assert.True(t, opts.SuspendBrowsers)
	assert.False(t, opts.SuspendTargetShell)
	assert.True(t, opts.Hardware.HAGS)
	assert.True(t, opts.Hardware.CoreParking)
	assert.False(t, cfg.Monitor.AutoDisable)
	assert.Equal(t, "debug", cfg.LoggerConfig().Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GAMEMODE_HARDWARE_MMCSS", "maybe")

	_, err := Load()
	assert.Error(t, err)
	assert.Equal(t, Default(), LoadOrDefault())
}

func TestPreset(t *testing.T) {
	t.Setenv("GAMEMODE_SESSION_PRESET", "nuclear")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, profiles.Nuclear().Options, cfg.Options())
}

func TestUnknownPreset(t *testing.T) {
	t.Setenv("GAMEMODE_SESSION_PRESET", "turbo")

	_, err := Load()
	assert.ErrorContains(t, err, "turbo")
}
