package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and pointers for
// booleans and ints so absent keys can be told apart from zero values.
type FileConfig struct {
	Host string `toml:"host"`
	Port *int   `toml:"port"`

	Layer              *int   `toml:"layer"`
	BaseClipSlot       *int   `toml:"base_clip_slot"`
	RotationCount      *int   `toml:"rotation_count"`
	ClearSlot          *int   `toml:"clear_slot"`
	AutoClearEnabled   *bool  `toml:"auto_clear"`
	AutoClearDelay     string `toml:"auto_clear_delay"`
	ShowStartupPattern *bool  `toml:"startup_pattern"`

	Dedup        *bool  `toml:"dedup"`
	Throttle     *bool  `toml:"throttle"`
	Pooling      *bool  `toml:"pooling"`
	PoolInterval string `toml:"pool_interval"`

	Watch    *bool  `toml:"watch"`
	LogLevel string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.textship/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".textship", "config.toml")
	}
	return ""
}

// FileExists reports whether the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", fc.Host, &cfg.Host)
	s.setInt("port", fc.Port, &cfg.Port)
	s.setInt("layer", fc.Layer, &cfg.Layer)
	s.setInt("base-clip-slot", fc.BaseClipSlot, &cfg.BaseClipSlot)
	s.setInt("rotation-count", fc.RotationCount, &cfg.RotationCount)
	s.setInt("clear-slot", fc.ClearSlot, &cfg.ClearSlot)
	s.setBool("auto-clear", fc.AutoClearEnabled, &cfg.AutoClearEnabled)
	if err := s.setDuration("auto-clear-delay", fc.AutoClearDelay, &cfg.AutoClearDelay); err != nil {
		return err
	}
	s.setBool("startup-pattern", fc.ShowStartupPattern, &cfg.ShowStartupPattern)

	s.setBool("dedup", fc.Dedup, &cfg.Dedup)
	s.setBool("throttle", fc.Throttle, &cfg.Throttle)
	s.setBool("pooling", fc.Pooling, &cfg.Pooling)
	if err := s.setDuration("pool-interval", fc.PoolInterval, &cfg.PoolInterval); err != nil {
		return err
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	return nil
}
