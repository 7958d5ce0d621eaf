package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8090", cfg.Server.Address())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1920, cfg.Desktop.ScreenWidth)
	assert.Equal(t, 1080, cfg.Desktop.ScreenHeight)
	assert.Equal(t, PolicyAllow, cfg.Desktop.PermissionPolicy)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 120, cfg.Server.RateLimit)
	assert.Empty(t, cfg.Seed.RegistryFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DESKTOPD_PORT", "9999")
	t.Setenv("DESKTOPD_LOG_LEVEL", "debug")
	t.Setenv("DESKTOPD_SCREEN_WIDTH", "2560")
	t.Setenv("DESKTOPD_SEED_THEMES", "/etc/webdesk/themes.toml")
	t.Setenv("DESKTOPD_ALLOWED_ORIGINS", "https://desk.example.com,https://shell.example.com")
	t.Setenv("DESKTOPD_PERMISSION_POLICY", "deny")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2560, cfg.Desktop.ScreenWidth)
	assert.Equal(t, "/etc/webdesk/themes.toml", cfg.Seed.ThemesFile)
	assert.Equal(t, []string{"https://desk.example.com", "https://shell.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, PolicyDeny, cfg.Desktop.PermissionPolicy)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("DESKTOPD_PORT", "70000")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidScreen(t *testing.T) {
	t.Setenv("DESKTOPD_SCREEN_WIDTH", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownPermissionPolicy(t *testing.T) {
	t.Setenv("DESKTOPD_PERMISSION_POLICY", "prompt")
	_, err := Load()
	assert.Error(t, err)
}

func TestDefaultMatchesEmptyEnvironment(t *testing.T) {
	cfg := Default()
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Server.Address(), loaded.Server.Address())
	assert.Equal(t, cfg.Desktop, loaded.Desktop)
}
