package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davenportd/scribe/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// EnsureConfigExists creates the config directory and an empty config file
// when missing, so Load always has a file to read.
func EnsureConfigExists(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return &ConfigInitError{msg: fmt.Sprintf("failed to create config file: %v", err)}
		}
		file.Close()
	} else if err != nil {
		return &ConfigInitError{msg: fmt.Sprintf("failed to check config file existence: %v", err)}
	}

	return nil
}
