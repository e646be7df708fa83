package ports

import (
	"context"

	"github.com/stagecast/textship/internal/osc"
)

// UnitSender transmits one wire unit to the receiver.
// The transport connection implements this interface.
type UnitSender interface {
	// Send encodes and transmits the message as a single datagram.
	// Valid only while the underlying connection is connected.
	Send(ctx context.Context, msg osc.Message) error
}

// Disposition reports what the performance gate did with a message.
type Disposition int

const (
	// DispositionSent means the message was handed to the transport.
	DispositionSent Disposition = iota

	// DispositionDeduped means an identical message was sent recently and
	// this one was suppressed as a no-op success.
	DispositionDeduped

	// DispositionThrottled means an identical message was sent within the
	// throttle window and this one was suppressed as too soon.
	DispositionThrottled

	// DispositionPooled means the message was queued for the next pool
	// flush; a newer payload for the same address may replace it.
	DispositionPooled
)

// String returns a human-readable representation of the disposition.
func (d Disposition) String() string {
	switch d {
	case DispositionSent:
		return "sent"
	case DispositionDeduped:
		return "deduped"
	case DispositionThrottled:
		return "throttled"
	case DispositionPooled:
		return "pooled"
	default:
		return "unknown"
	}
}

// GatedSender is the send surface the dispatch pipeline uses: a UnitSender
// with deduplication, throttling, and optional pooling in front. Suppressed
// sends resolve as success with a non-sent disposition. force bypasses
// dedup and throttle for user-initiated re-sends of identical content.
type GatedSender interface {
	Send(ctx context.Context, msg osc.Message, force bool) (Disposition, error)
}
