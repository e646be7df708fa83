// Package osc implements the sender-side binary OSC wire format and the
// address patterns consumed by the compositing engine.
//
// A [Message] is one addressed, typed-argument unit; Encode produces one
// complete UDP datagram payload. The codec is pure and stateless: addresses
// and strings are null-terminated and zero-padded to 4-byte boundaries,
// integers and floats are 4-byte big-endian, blobs carry a big-endian length
// prefix and are padded to a 4-byte boundary. No decode path exists; the
// protocol is send-only.
package osc
