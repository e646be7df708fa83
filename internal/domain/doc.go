// Package domain contains the core domain values for textship.
//
// This is the innermost layer: it has no dependencies on networking,
// logging, or configuration plumbing and holds only the values and
// invariants the rest of the system is built around.
//
// # Values
//
//   - [Settings]: the show-control target (host/port, layer, clip slots,
//     rotation and auto-clear behavior)
//   - [DispatchError]: a dispatch failure tagged with the step that failed,
//     so callers can tell whether the receiver's text was already updated
//     before the trigger failed
//   - Sentinel errors for the error taxonomy (ErrNotConnected,
//     ErrConnectionFailed, ErrSendFailed, ErrInvalidSettings)
package domain
