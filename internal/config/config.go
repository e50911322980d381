// Package config loads the user-level application config: the Jira site,
// credentials, and local file locations. Distinct from the settings blob,
// which holds the admin-configured calendar behavior and lives in the
// store package.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/xalt/visitcal/internal/auth"
	"github.com/xalt/visitcal/internal/domain"
)

// Config is the on-disk YAML configuration.
type Config struct {
	// BaseURL is the Jira Cloud site, e.g. "https://example.atlassian.net".
	BaseURL string `yaml:"base_url"`

	// Credentials; either may be left empty to fall back to the
	// JIRA_EMAIL / JIRA_API_TOKEN environment variables.
	Email    string `yaml:"email"`
	APIToken string `yaml:"api_token"`

	// SettingsPath overrides where the settings blob is stored.
	SettingsPath string `yaml:"settings_path"`

	// DefaultView is the calendar view shown on startup:
	// "month", "week" or "fullweek".
	DefaultView string `yaml:"default_view"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// DefaultPath returns the conventional config location,
// $XDG_CONFIG_HOME/visitcal/config.yaml or the OS equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(dir, "visitcal", "config.yaml"), nil
}

// Load reads the config file at path. A missing file yields a zero
// config (everything resolvable from flags and environment); a present
// but malformed file is an error since silently ignoring it would be
// confusing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Credentials returns the config's credential pair for the auth
// fallback chain.
func (c Config) Credentials() auth.Credentials {
	return auth.Credentials{Email: c.Email, Token: c.APIToken}
}

// ResolveSettingsPath returns the settings blob location, defaulting to
// a sibling of the config file.
func (c Config) ResolveSettingsPath() (string, error) {
	if c.SettingsPath != "" {
		return c.SettingsPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(dir, "visitcal", "settings.json"), nil
}

// View parses the configured default view, falling back to the month view.
func (c Config) View() domain.ViewMode {
	switch domain.ViewMode(c.DefaultView) {
	case domain.ViewWeek, domain.ViewFullWeek, domain.ViewMonth:
		return domain.ViewMode(c.DefaultView)
	default:
		return domain.ViewMonth
	}
}
