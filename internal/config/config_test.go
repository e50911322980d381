package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xalt/visitcal/internal/domain"
)

func TestLoad_MissingFileIsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://example.atlassian.net
email: user@example.com
api_token: atat_secret
default_view: week
verbose: true
`), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", cfg.BaseURL)
	assert.Equal(t, "user@example.com", cfg.Credentials().Email)
	assert.Equal(t, "atat_secret", cfg.Credentials().Token)
	assert.Equal(t, domain.ViewWeek, cfg.View())
	assert.True(t, cfg.Verbose)
}

func TestLoad_MalformedIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [broken"), 0o600))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestView_FallsBackToMonth(t *testing.T) {
	assert.Equal(t, domain.ViewMonth, Config{}.View())
	assert.Equal(t, domain.ViewMonth, Config{DefaultView: "quarter"}.View())
	assert.Equal(t, domain.ViewFullWeek, Config{DefaultView: "fullweek"}.View())
}

func TestResolveSettingsPath_Override(t *testing.T) {
	cfg := Config{SettingsPath: "/tmp/custom.json"}

	path, err := cfg.ResolveSettingsPath()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", path)
}
