// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings. Nil fields were not set.
type PracticeConfig struct {
	Operations      []string `toml:"operations"`
	TimeSeconds     *float64 `toml:"time"`
	Digits          *int     `toml:"digits"`
	FeedbackPauseMs *int     `toml:"feedback-ms"`
	Start           *bool    `toml:"start"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	File  *string `toml:"file"`
	Level *string `toml:"level"`
}

// Template is written by `mathrun config` when no config file exists yet.
const Template = `# mathrun configuration.
# Command line flags override every value here.

[practice]
# Operations to practice: "+", "-", "*", "/" (or add, sub, mul, div).
# operations = ["+", "-"]

# Seconds allowed per question.
# time = 3

# Digits per operand (1-9).
# digits = 2

# Pause after each answer, in milliseconds.
# feedback-ms = 400

# Skip the setup form and start right away.
# start = false

[log]
# JSON log file. Logging is off when unset. A leading "~/" means the home
# directory. Passing --log-file without a value logs to the XDG state dir.
# file = "~/mathrun.log"

# debug, info, warn or error.
# level = "info"
`

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// EnsureConfig writes Template to path unless a file already exists there.
// It reports whether a new file was created.
func EnsureConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
