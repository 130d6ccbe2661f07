// Package config holds application configuration, persisted as JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// RootDir is the operator-chosen root holding transcripts/ and
	// recordings/.
	RootDir string `json:"root_dir"`
	// Voice is the active speaker's recording set name.
	Voice string `json:"voice"`
	// AudioDeviceID selects the capture device; -1 means the system
	// default.
	AudioDeviceID int `json:"audio_device_id"`
	// Latency is "stability" or "low".
	Latency string `json:"latency"`
	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RootDir:       "",
		Voice:         "default",
		AudioDeviceID: -1,
		Latency:       "stability",
		LogLevel:      "info",
	}
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "voxbook", "config.json")
}

// Load loads configuration from the specified path. A missing file yields
// the default configuration, not an error.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Save saves configuration to the specified path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the home directory and makes the
// path absolute.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, path[2:]), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}

// Validate validates all configuration fields.
func (c *Config) Validate() error {
	if c.Voice == "" {
		return fmt.Errorf("voice cannot be empty")
	}
	if strings.ContainsAny(c.Voice, `/\`) {
		return fmt.Errorf("invalid voice: %s (must not contain path separators)", c.Voice)
	}
	if c.Latency != "stability" && c.Latency != "low" {
		return fmt.Errorf("invalid latency: %s (must be 'stability' or 'low')", c.Latency)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if c.AudioDeviceID < -1 {
		return fmt.Errorf("invalid audio_device_id: %d", c.AudioDeviceID)
	}
	return nil
}
