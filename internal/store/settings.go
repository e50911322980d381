package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/logging"
)

// SettingsFile persists the settings blob as JSON on disk. Saves replace
// the whole blob; there is no partial merge.
type SettingsFile struct {
	path string
}

// NewSettingsFile creates a settings file handle at the given path.
func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{path: path}
}

// Load reads the settings blob. A missing or unreadable file falls back
// to defaults so the calendar always renders; only the fallback is
// logged, never fatal.
func (f *SettingsFile) Load() domain.Settings {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("could not read settings, using defaults", "path", f.path, "error", err)
		}
		return domain.DefaultSettings()
	}

	var s domain.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		logging.Warn("settings file is corrupt, using defaults", "path", f.path, "error", err)
		return domain.DefaultSettings()
	}

	s.Normalize()
	return s
}

// Save writes the settings blob, creating parent directories as needed.
// The write goes through a temp file and rename so a crash mid-save
// never leaves a truncated blob.
func (f *SettingsFile) Save(s domain.Settings) error {
	s.Normalize()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}
