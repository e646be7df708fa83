// Package transport owns the UDP connection to the show-control receiver
// and its state machine.
//
// A [Conn] targets one fixed host:port. All state transitions are
// serialized under a single mutex and pushed to subscribed observers in
// order; observers are invoked outside the lock. Connect is idempotent,
// Send is valid only while connected, and Disconnect flips the observable
// state synchronously regardless of how socket teardown completes.
package transport
