package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/lib"
)

// target is a resolved directory together with the settings and ignore
// rules that apply to it.
type target struct {
	root     string
	settings *lib.Settings
	rules    *lib.IgnoreRules
}

// resolveTarget canonicalizes directory and loads its settings. An empty
// configPath means the settings file inside the directory.
func resolveTarget(directory, configPath string) (*target, error) {
	absDir, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("could not resolve path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("target directory does not exist: %s", absDir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("target is not a directory: %s", absDir)
	}

	root, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		root = absDir
	}

	if configPath == "" {
		configPath = filepath.Join(root, lib.SettingsFilename)
	}
	settings, err := lib.LoadSettings(configPath)
	if err != nil {
		return nil, err
	}

	return &target{
		root:     root,
		settings: settings,
		rules:    lib.LoadIgnoreRules(root, settings.Ignore),
	}, nil
}
