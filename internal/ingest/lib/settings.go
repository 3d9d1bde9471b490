package lib

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the optional YAML configuration of a watched directory.
type Settings struct {
	Ignore    []string `yaml:"ignore"`
	Debounce  string   `yaml:"debounce"`
	Workers   int      `yaml:"workers"`
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	return &Settings{
		Ignore:    []string{},
		Debounce:  "250ms",
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadSettings reads settings from path. A missing file yields the defaults;
// keys absent from the file keep their default value.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	if settings.Ignore == nil {
		settings.Ignore = []string{}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// Validate checks every field that has a constrained value.
func (s *Settings) Validate() error {
	if _, err := s.DebounceDuration(); err != nil {
		return err
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", s.LogFormat)
	}
	return nil
}

// DebounceDuration parses Debounce. Zero disables merging.
func (s *Settings) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(s.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid debounce %q: %w", s.Debounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("debounce must not be negative, got %s", d)
	}
	return d, nil
}
