package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/errors"
)

// GlobalConfigDir returns the path to the global configuration directory,
// typically ~/.gitassist.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.Home), nil
}

// ProjectConfigDir returns the project configuration directory relative to the project root.
func ProjectConfigDir() string {
	return constants.Home
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the project configuration file relative to the project root.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.ProjectConfigName)
}

// KeyValueConfigPath returns the legacy KEY=VALUE file relative to the project root.
func KeyValueConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.KeyValueConfigName)
}

// LogDir returns the directory that holds the run log.
func LogDir() string {
	return filepath.Join(constants.Home, constants.LogsDir)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
