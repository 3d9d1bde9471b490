package lib

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), SettingsFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSettings(t *testing.T) {
	t.Run("should return defaults when the file is missing", func(t *testing.T) {
		settings, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), settings)
	})

	t.Run("should overlay file values on defaults", func(t *testing.T) {
		path := writeSettings(t, "ignore:\n  - \"*.part\"\n  - incoming/\ndebounce: 1s\nlog_format: json\n")

		settings, err := LoadSettings(path)
		require.NoError(t, err)

		assert.Equal(t, []string{"*.part", "incoming/"}, settings.Ignore)
		assert.Equal(t, "json", settings.LogFormat)
		assert.Equal(t, "info", settings.LogLevel, "unset keys keep their default")
		d, err := settings.DebounceDuration()
		require.NoError(t, err)
		assert.Equal(t, time.Second, d)
	})

	t.Run("should accept an empty file", func(t *testing.T) {
		settings, err := LoadSettings(writeSettings(t, ""))
		require.NoError(t, err)
		assert.NotNil(t, settings.Ignore)
	})

	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed YAML", content: "ignore: [unclosed", wantErr: "failed to parse"},
		{name: "bad debounce", content: "debounce: soon", wantErr: "invalid debounce"},
		{name: "negative debounce", content: "debounce: -1s", wantErr: "must not be negative"},
		{name: "zero workers", content: "workers: 0", wantErr: "workers must be at least 1"},
		{name: "unknown log level", content: "log_level: loud", wantErr: "unknown log level"},
		{name: "unknown log format", content: "log_format: xml", wantErr: "log_format must be"},
	}
	for _, tc := range testCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
