// Package config loads the engine's startup options from a TOML file.
// UCI setoption commands do not change a loaded Config.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the engine's startup options.
type Config struct {
	Hash     int    `toml:"hash_mb"`
	Depth    int    `toml:"default_depth"`
	LogLevel string `toml:"log_level"`
}

// Default returns the engine's built-in defaults, used when no config file
// is present.
func Default() Config {
	return Config{
		Hash:     64,
		Depth:    0, // 0 means no fixed depth limit
		LogLevel: "WARNING",
	}
}

// Load reads a TOML config file at path, overlaying it onto Default().
// A missing file is not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
