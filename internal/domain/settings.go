package domain

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultPort is the default OSC input port of the compositing engine.
const DefaultPort = 7000

// Settings describes the show-control target and dispatch behavior.
// The dispatch pipeline holds a read-only snapshot; replacing the snapshot
// takes effect on the next dispatch. Changing Host or Port invalidates the
// current transport connection.
type Settings struct {
	// Host is the receiver's hostname or IP address.
	Host string

	// Port is the receiver's OSC input port.
	Port int

	// Layer is the composition layer addressed by all messages.
	Layer int

	// BaseClipSlot is the first clip slot of the rotation range.
	BaseClipSlot int

	// RotationCount is the number of clip slots cycled through, one per
	// successful dispatch. Must be at least 1; 1 disables rotation.
	RotationCount int

	// ClearSlot is the clip slot triggered by Clear (typically an empty clip).
	ClearSlot int

	// AutoClearEnabled schedules an automatic clear after each successful
	// dispatch.
	AutoClearEnabled bool

	// AutoClearDelay is the delay before the automatic clear fires.
	AutoClearDelay time.Duration

	// ShowStartupPattern runs the identification sequence after a
	// successful connect as a connectivity smoke test.
	ShowStartupPattern bool
}

// DefaultSettings returns Settings with default values.
func DefaultSettings() Settings {
	return Settings{
		Host:           "127.0.0.1",
		Port:           DefaultPort,
		Layer:          1,
		BaseClipSlot:   1,
		RotationCount:  1,
		ClearSlot:      0,
		AutoClearDelay: 10 * time.Second,
	}
}

// Validate checks the settings for errors and fills derived defaults.
// All failures wrap ErrInvalidSettings.
func (s *Settings) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidSettings)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidSettings, s.Port)
	}
	if s.Layer < 0 {
		return fmt.Errorf("%w: layer must be non-negative", ErrInvalidSettings)
	}
	if s.BaseClipSlot < 0 {
		return fmt.Errorf("%w: base clip slot must be non-negative", ErrInvalidSettings)
	}
	if s.ClearSlot < 0 {
		return fmt.Errorf("%w: clear slot must be non-negative", ErrInvalidSettings)
	}
	if s.RotationCount == 0 {
		s.RotationCount = 1
	}
	if s.RotationCount < 1 {
		return fmt.Errorf("%w: rotation count must be at least 1", ErrInvalidSettings)
	}
	if s.AutoClearEnabled && s.AutoClearDelay <= 0 {
		return fmt.Errorf("%w: auto-clear delay must be positive", ErrInvalidSettings)
	}
	return nil
}

// Addr returns the receiver address as "host:port".
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SameEndpoint reports whether both settings target the same host and port.
// A false result means the transport connection must be re-established.
func (s Settings) SameEndpoint(o Settings) bool {
	return s.Host == o.Host && s.Port == o.Port
}
