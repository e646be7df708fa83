// Package textship dispatches short text messages to a video compositing
// engine over a UDP OSC protocol.
//
// Example usage:
//
//	cfg := textship.DefaultConfig()
//	cfg.Host = "192.168.1.40"
//	client, err := textship.Dial(context.Background(), cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//	if _, err := client.Dispatch(context.Background(), "DOORS OPEN 19:00"); err != nil {
//	    log.Fatal(err)
//	}
package textship

import (
	"context"

	"github.com/stagecast/textship/internal/cliconfig"
	"github.com/stagecast/textship/internal/dispatch"
	"github.com/stagecast/textship/internal/domain"
	"github.com/stagecast/textship/internal/perf"
	"github.com/stagecast/textship/internal/transport"
	"github.com/stagecast/textship/pkg/log"
)

// Config holds the configuration for a textship client.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Settings is the show-control settings snapshot held by the dispatch
// pipeline.
type Settings = domain.Settings

// Result describes one accepted dispatch.
type Result = dispatch.Result

// Stats is a snapshot of the performance gate counters.
type Stats = perf.Stats

// ConnState is the observable transport connection state.
type ConnState = transport.State

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Client is a connected show-control dispatcher: one UDP connection, a
// performance gate in front of it, and the dispatch pipeline on top.
type Client struct {
	conn   *transport.Conn
	gate   *perf.Gate
	pipe   *dispatch.Pipeline
	cancel context.CancelFunc
}

// Dial validates cfg, connects to the receiver, and starts the gate's
// background housekeeping. If the startup pattern is enabled it runs as a
// connectivity smoke test before Dial returns. Pass a nil logger to
// disable logging.
func Dial(ctx context.Context, cfg Config, logger log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st := cfg.Settings()
	conn := transport.New(st.Addr(), logger)
	gate := perf.New(conn, logger, cfg.GateOptions())
	pipe := dispatch.New(conn, gate, st, logger)

	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}

	bg, cancel := context.WithCancel(context.Background())
	gate.Start(bg)

	c := &Client{conn: conn, gate: gate, pipe: pipe, cancel: cancel}
	if st.ShowStartupPattern {
		if err := pipe.SelfTest(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Dispatch sends text to the active rotation slot.
func (c *Client) Dispatch(ctx context.Context, text string) (Result, error) {
	return c.pipe.Dispatch(ctx, text)
}

// DispatchFresh sends text bypassing dedup and throttle, for
// user-initiated re-sends of identical content.
func (c *Client) DispatchFresh(ctx context.Context, text string) (Result, error) {
	return c.pipe.DispatchFresh(ctx, text)
}

// Clear cancels any pending auto-clear and triggers the clear slot.
func (c *Client) Clear(ctx context.Context) error {
	return c.pipe.Clear(ctx)
}

// SelfTest runs the startup pattern on demand.
func (c *Client) SelfTest(ctx context.Context) error {
	return c.pipe.SelfTest(ctx)
}

// ApplySettings replaces the show-control settings. An endpoint change
// reconnects the transport.
func (c *Client) ApplySettings(ctx context.Context, next Settings) error {
	return c.pipe.ApplySettings(ctx, next)
}

// State returns the transport connection state.
func (c *Client) State() ConnState {
	return c.conn.State()
}

// Stats returns the performance gate counters.
func (c *Client) Stats() Stats {
	return c.gate.Stats()
}

// Close stops the auto-clear timer and background housekeeping, then
// disconnects. The connection state reads Disconnected once Close returns.
func (c *Client) Close() {
	c.pipe.Close()
	c.cancel()
	c.gate.Wait()
	c.conn.Disconnect()
}
