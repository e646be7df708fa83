// Package perf reduces redundant outbound traffic in front of the
// transport connection.
//
// A [Gate] wraps a unit sender with three mechanisms:
//
//   - dedup: an identical message sent within the cache TTL is suppressed
//     as a no-op success, unless the caller forces a fresh send
//   - throttle: an identical message sent within the throttle window is
//     suppressed as too soon, independently of dedup
//   - pooling (opt-in, off by default): messages are held in a per-address
//     pool and flushed on a fixed interval; a newer payload for an address
//     replaces an older unsent one, an explicit lossy-coalescing trade-off
//
// The pool preserves first-enqueue order across addresses, so a set-text
// unit pooled before its trigger unit is also flushed before it. Cache and
// throttle bookkeeping share one map swept periodically; sweeps are
// self-healing and never surface errors.
package perf
