package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the name of the settings file inside XDGConfigDir.
const SettingsFileName = "settings.yaml"

// Settings holds the values remembered between runs.
// They are reloaded at startup and rewritten after each run.
type Settings struct {
	// Limit is the last used entity limit. 0 means all.
	Limit int `yaml:"limit"`

	// Term is the last used search term.
	Term string `yaml:"term"`

	// Wait is the last used browser wait time, e.g. "2s".
	Wait time.Duration `yaml:"wait"`

	// SaveDir is the last used export directory.
	SaveDir string `yaml:"save_dir"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		Limit: DefaultLimit,
		Term:  DefaultTerm,
		Wait:  DefaultWait,
	}
}

// SettingsPath returns the default location of the settings file.
func SettingsPath() string {
	return filepath.Join(XDGConfigDir(), SettingsFileName)
}

// LoadSettings reads settings from path.
// A missing file is not an error: DefaultSettings are returned instead.
// Fields absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own settings file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes settings to path, creating its directory if needed.
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
