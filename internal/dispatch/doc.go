// Package dispatch turns text payloads into correctly sequenced wire units
// and manages clip rotation and auto-clear timing.
//
// A [Pipeline] owns the rotation cursor and the single auto-clear timer for
// one connection. Dispatch sends a "set text" unit for the active rotation
// slot followed by a "trigger" unit for the same slot; a failure aborts the
// sequence and is reported with the step that failed. The cursor, timer,
// and settings snapshot are all mutated under one mutex, so two concurrent
// dispatches never interleave their sends.
package dispatch
