package ports

import "context"

// PacketConn is the write side of a connected datagram socket.
// *net.UDPConn satisfies this interface.
type PacketConn interface {
	// Write sends one datagram.
	Write(b []byte) (int, error)

	// Close releases the socket.
	Close() error
}

// Dialer opens a connected datagram socket to addr ("host:port").
// Injectable so tests can supply an in-memory socket.
type Dialer func(ctx context.Context, addr string) (PacketConn, error)
