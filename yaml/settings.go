// Package yaml stores user settings in a YAML file.
package yaml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/pagebrief"
	"gopkg.in/yaml.v3"
)

// ConfigEnv overrides the settings file location.
const ConfigEnv = "PAGEBRIEF_CONFIG"

// DefaultPath returns $PAGEBRIEF_CONFIG, or ~/.pagebrief/settings.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".pagebrief", "settings.yaml"), nil
}

// Ensure SettingsStore implements pagebrief.SettingsService at compile time.
var _ pagebrief.SettingsService = (*SettingsStore)(nil)

// SettingsStore implements pagebrief.SettingsService with a YAML file.
type SettingsStore struct {
	path       string
	defaultDir string
}

// NewSettingsStore creates a store for the file at path. defaultDir is the
// project directory used when the file doesn't name one.
func NewSettingsStore(path, defaultDir string) *SettingsStore {
	return &SettingsStore{path: path, defaultDir: defaultDir}
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.path
}

// LoadSettings reads the settings file. A missing file yields defaults and
// keys absent from the file keep their default values.
func (s *SettingsStore) LoadSettings() (*pagebrief.Settings, error) {
	settings := pagebrief.DefaultSettings(s.defaultDir)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", s.path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, pagebrief.Errorf(pagebrief.EINVALID, "invalid settings file %s: %v", s.path, err)
	}
	if settings.ProjectDirectory == "" {
		settings.ProjectDirectory = s.defaultDir
	}
	settings.Normalize()
	return settings, nil
}

// SaveSettings validates settings and replaces the file, creating its
// directory when needed.
func (s *SettingsStore) SaveSettings(settings *pagebrief.Settings) error {
	if settings == nil {
		return pagebrief.Errorf(pagebrief.EINVALID, "settings required")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pagebrief.Errorf(pagebrief.EPERSIST, "create settings directory: %v", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return pagebrief.Errorf(pagebrief.EPERSIST, "write settings: %v", err)
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), s.path)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return pagebrief.Errorf(pagebrief.EPERSIST, "write settings: %v", err)
	}
	return nil
}
