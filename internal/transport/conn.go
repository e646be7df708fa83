package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/stagecast/textship/internal/domain"
	"github.com/stagecast/textship/internal/osc"
	"github.com/stagecast/textship/internal/ports"
	"github.com/stagecast/textship/pkg/log"
)

// Observer receives state transitions for one connection. Transitions are
// delivered in order; a torn or reordered pair is never observed.
type Observer func(previous, current State, reason string)

type transition struct {
	previous State
	current  State
	reason   string
}

// Conn is one UDP association with the receiver.
type Conn struct {
	mu        sync.Mutex
	state     State
	failure   error
	addr      string
	sock      ports.PacketConn
	dial      ports.Dialer
	observers []Observer
	pending   []transition

	// emitMu serializes observer delivery so concurrent transitions are
	// never observed out of order.
	emitMu sync.Mutex

	logger log.Logger
}

// Option configures a Conn.
type Option func(*Conn)

// WithDialer replaces the default UDP dialer, for tests.
func WithDialer(d ports.Dialer) Option {
	return func(c *Conn) { c.dial = d }
}

// New creates a connection targeting addr ("host:port"). The connection
// starts Disconnected; call Connect to establish it.
func New(addr string, logger log.Logger, opts ...Option) *Conn {
	c := &Conn{
		state:  StateDisconnected,
		addr:   addr,
		dial:   defaultDial,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultDial(ctx context.Context, addr string) (ports.PacketConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// State returns the current connection state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Addr returns the target address.
func (c *Conn) Addr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addr
}

// Failure returns the error that moved the connection to Failed, if any.
func (c *Conn) Failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Subscribe registers an observer for state transitions.
func (c *Conn) Subscribe(fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// SetAddr retargets the connection. Valid only while Disconnected; callers
// replacing the endpoint must Disconnect first.
func (c *Conn) SetAddr(addr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDisconnected {
		return fmt.Errorf("%w: cannot retarget while %s", domain.ErrInvalidSettings, c.state)
	}
	c.addr = addr
	c.failure = nil
	return nil
}

// Connect establishes the UDP association. Calling Connect while the
// connection is not Disconnected is a no-op that reports success, so
// callers that poll and retry are never rejected mid-attempt.
func (c *Conn) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.failure = nil
	c.transitionLocked(StateConnecting, "connect requested")
	dial := c.dial
	addr := c.addr
	c.mu.Unlock()
	c.flush()

	sock, err := dial(ctx, addr)

	c.mu.Lock()
	if c.state != StateConnecting {
		// Disconnected while the dial was in flight.
		c.mu.Unlock()
		if sock != nil {
			sock.Close()
		}
		return domain.ErrNotConnected
	}
	if err != nil {
		// Failed is sticky: the caller resets it with Disconnect before retrying.
		c.failure = err
		c.transitionLocked(StateFailed, err.Error())
		c.mu.Unlock()
		c.flush()
		return fmt.Errorf("%w: dial %s: %v", domain.ErrConnectionFailed, addr, err)
	}
	c.sock = sock
	c.transitionLocked(StateConnected, "socket ready")
	c.mu.Unlock()
	c.flush()
	return nil
}

// Send encodes and transmits msg as one datagram. Valid only while
// Connected. A write error is surfaced to the caller but does not change
// the connection state by itself.
func (c *Conn) Send(ctx context.Context, msg osc.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// The lock is held across the write so sends on one connection are
	// fully ordered relative to each other and to state transitions.
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		return domain.ErrNotConnected
	}

	b, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}
	if _, err := c.sock.Write(b); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}
	return nil
}

// Disconnect tears down the connection. The observable state is
// Disconnected as soon as this returns, even if the socket close is still
// completing, so a subsequent Connect is never rejected on stale state.
// Calling Disconnect while already Disconnected is a no-op.
func (c *Conn) Disconnect() {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	sock := c.sock
	c.sock = nil
	c.transitionLocked(StateCanceling, "disconnect requested")
	c.transitionLocked(StateDisconnected, "teardown complete")
	c.mu.Unlock()
	c.flush()

	if sock != nil {
		sock.Close()
	}
}

// transitionLocked records a state change. Callers must hold c.mu; the
// queued transitions are delivered by flush after the lock is released.
func (c *Conn) transitionLocked(to State, reason string) {
	from := c.state
	c.state = to
	c.pending = append(c.pending, transition{previous: from, current: to, reason: reason})
}

// flush delivers queued transitions to observers, outside the state lock.
func (c *Conn) flush() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	events := c.pending
	c.pending = nil
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	for _, ev := range events {
		c.logger.Info("state transition",
			log.String("from", ev.previous.String()),
			log.String("to", ev.current.String()),
			log.String("reason", ev.reason),
		)
		for _, fn := range observers {
			fn(ev.previous, ev.current, ev.reason)
		}
	}
}
