package cliconfig

import (
	"fmt"
	"time"

	"github.com/stagecast/textship/internal/domain"
	"github.com/stagecast/textship/internal/perf"
)

// Config holds CLI configuration for textship.
type Config struct {
	Host string
	Port int

	Layer              int
	BaseClipSlot       int
	RotationCount      int
	ClearSlot          int
	AutoClearEnabled   bool
	AutoClearDelay     time.Duration
	ShowStartupPattern bool

	Dedup        bool
	Throttle     bool
	Pooling      bool
	PoolInterval time.Duration

	Watch    bool
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           domain.DefaultPort,
		Layer:          1,
		BaseClipSlot:   1,
		RotationCount:  1,
		ClearSlot:      0,
		AutoClearDelay: 10 * time.Second,
		Dedup:          true,
		Throttle:       true,
		Pooling:        false,
		PoolInterval:   perf.DefaultPoolInterval,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	s := c.Settings()
	if err := s.Validate(); err != nil {
		return err
	}
	// Validate may have filled derived defaults.
	c.RotationCount = s.RotationCount
	if c.Pooling && c.PoolInterval <= 0 {
		return fmt.Errorf("pool interval must be positive")
	}
	return nil
}

// Settings converts the CLI configuration to the show-control settings
// consumed by the dispatch pipeline.
func (c Config) Settings() domain.Settings {
	return domain.Settings{
		Host:               c.Host,
		Port:               c.Port,
		Layer:              c.Layer,
		BaseClipSlot:       c.BaseClipSlot,
		RotationCount:      c.RotationCount,
		ClearSlot:          c.ClearSlot,
		AutoClearEnabled:   c.AutoClearEnabled,
		AutoClearDelay:     c.AutoClearDelay,
		ShowStartupPattern: c.ShowStartupPattern,
	}
}

// GateOptions converts the CLI configuration to performance gate options.
func (c Config) GateOptions() perf.Options {
	opts := perf.DefaultOptions()
	opts.Dedup = c.Dedup
	opts.Throttle = c.Throttle
	opts.Pooling = c.Pooling
	opts.PoolInterval = c.PoolInterval
	return opts
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if non-negative and flag not changed.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || *value < 0 || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value if present and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration value if present and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", flag, err)
	}
	*dst = d
	return nil
}
