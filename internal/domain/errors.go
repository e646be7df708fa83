package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the textship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrNotConnected is returned when an operation requires a connected
	// transport and the connection is in any other state.
	ErrNotConnected = errors.New("textship: not connected")

	// ErrConnectionFailed is returned when establishing the UDP association fails.
	ErrConnectionFailed = errors.New("textship: connection failed")

	// ErrSendFailed is returned when a datagram write fails.
	// A send failure does not change the connection state by itself.
	ErrSendFailed = errors.New("textship: send failed")

	// ErrInvalidSettings is returned when settings validation fails at apply time.
	ErrInvalidSettings = errors.New("textship: invalid settings")

	// ErrSelfTestAborted is returned when a step of the startup pattern fails;
	// the remaining steps are not executed.
	ErrSelfTestAborted = errors.New("textship: startup pattern aborted")
)

// DispatchStep identifies which half of the two-step dispatch sequence failed.
type DispatchStep int

const (
	// StepSetText is the first step: writing the message text to the clip's
	// text generator parameter.
	StepSetText DispatchStep = iota

	// StepTrigger is the second step: activating the clip. If this step fails
	// the receiver's displayed text may already have been updated.
	StepTrigger
)

// String returns a human-readable representation of the step.
func (s DispatchStep) String() string {
	switch s {
	case StepSetText:
		return "set-text"
	case StepTrigger:
		return "trigger"
	default:
		return "unknown"
	}
}

// DispatchError reports a failed dispatch sequence. It wraps the underlying
// transport error and records the step and slot so the caller can infer how
// far the sequence got before it was aborted.
type DispatchError struct {
	Step DispatchStep
	Slot int
	Err  error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s failed on slot %d: %v", e.Step, e.Slot, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
