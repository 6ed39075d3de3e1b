// Package config loads the application's config.toml. A missing file
// yields defaults; the settings screen saves back through Save.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// DataDir is the storage directory holding the monthly logs,
	// categories.json and running-timer.json.
	DataDir string `toml:"data_dir"`

	WeekStart      string  `toml:"week_start"` // "monday" or "sunday"
	DailyGoalHours float64 `toml:"daily_goal_hours"`

	// Categories seed categories.json on first run; afterwards the
	// category store is authoritative.
	Categories      []string `toml:"categories"`
	DefaultCategory string   `toml:"default_category"`
}

func Default() Config {
	return Config{
		WeekStart:       "monday",
		DailyGoalHours:  8,
		Categories:      []string{"Work", "Personal"},
		DefaultCategory: "Work",
	}
}

// DefaultPath returns ~/.config/tempo/config.toml.
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "tempo", "config.toml"), nil
}

// DefaultDataDir returns ~/.config/tempo/data.
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "tempo", "data"), nil
}

// Load reads the config at path, falling back to defaults when the file
// does not exist. Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.WeekStart != "monday" && c.WeekStart != "sunday" {
		c.WeekStart = "monday"
	}
	return c, nil
}

// Save rewrites the config file, creating its directory when needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
