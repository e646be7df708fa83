package cliconfig

import (
	"fmt"
	"os"
	"strconv"
)

// ApplyEnvConfig applies configuration from environment variables (TEXTSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", os.Getenv("TEXTSHIP_HOST"), &cfg.Host)
	if err := s.setIntFromString("port", os.Getenv("TEXTSHIP_PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("layer", os.Getenv("TEXTSHIP_LAYER"), &cfg.Layer); err != nil {
		return err
	}
	if err := s.setIntFromString("base-clip-slot", os.Getenv("TEXTSHIP_BASE_CLIP_SLOT"), &cfg.BaseClipSlot); err != nil {
		return err
	}
	if err := s.setIntFromString("rotation-count", os.Getenv("TEXTSHIP_ROTATION_COUNT"), &cfg.RotationCount); err != nil {
		return err
	}
	if err := s.setIntFromString("clear-slot", os.Getenv("TEXTSHIP_CLEAR_SLOT"), &cfg.ClearSlot); err != nil {
		return err
	}
	if err := s.setBoolFromString("auto-clear", os.Getenv("TEXTSHIP_AUTO_CLEAR"), &cfg.AutoClearEnabled); err != nil {
		return err
	}
	if err := s.setDuration("auto-clear-delay", os.Getenv("TEXTSHIP_AUTO_CLEAR_DELAY"), &cfg.AutoClearDelay); err != nil {
		return err
	}
	if err := s.setBoolFromString("startup-pattern", os.Getenv("TEXTSHIP_STARTUP_PATTERN"), &cfg.ShowStartupPattern); err != nil {
		return err
	}

	if err := s.setBoolFromString("dedup", os.Getenv("TEXTSHIP_DEDUP"), &cfg.Dedup); err != nil {
		return err
	}
	if err := s.setBoolFromString("throttle", os.Getenv("TEXTSHIP_THROTTLE"), &cfg.Throttle); err != nil {
		return err
	}
	if err := s.setBoolFromString("pooling", os.Getenv("TEXTSHIP_POOLING"), &cfg.Pooling); err != nil {
		return err
	}
	if err := s.setDuration("pool-interval", os.Getenv("TEXTSHIP_POOL_INTERVAL"), &cfg.PoolInterval); err != nil {
		return err
	}

	if err := s.setBoolFromString("watch", os.Getenv("TEXTSHIP_WATCH"), &cfg.Watch); err != nil {
		return err
	}
	s.setString("log-level", os.Getenv("TEXTSHIP_LOG_LEVEL"), &cfg.LogLevel)

	return nil
}

// setIntFromString parses and sets an int value if not empty and flag not changed.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for %s: %w", flag, err)
	}
	*dst = n
	return nil
}

// setBoolFromString parses and sets a bool value if not empty and flag not changed.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for %s: %w", flag, err)
	}
	*dst = b
	return nil
}
