package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stagecast/textship/internal/domain"
	"github.com/stagecast/textship/internal/osc"
	"github.com/stagecast/textship/internal/ports"
	"github.com/stagecast/textship/internal/transport"
	"github.com/stagecast/textship/pkg/log"
)

// Transport is the connection surface the pipeline drives.
// *transport.Conn satisfies this interface.
type Transport interface {
	State() transport.State
	Connect(ctx context.Context) error
	Disconnect()
	SetAddr(addr string) error
}

// Result describes one accepted dispatch.
type Result struct {
	// ID correlates the dispatch across logs and completions.
	ID uuid.UUID

	// Slot is the clip slot the dispatch addressed.
	Slot int

	// SetText and Trigger report what the performance gate did with each unit.
	SetText ports.Disposition
	Trigger ports.Disposition
}

// Pipeline sequences show-control messages for one connection.
type Pipeline struct {
	mu       sync.Mutex
	conn     Transport
	send     ports.GatedSender
	settings domain.Settings
	cursor   int

	clearTimer *time.Timer
	clearGen   uint64

	selfTestDelay time.Duration
	onAsyncError  func(error)

	logger log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAsyncErrorHandler sets the callback that receives failures from the
// auto-clear timer. Without a handler such failures are logged only.
func WithAsyncErrorHandler(fn func(error)) Option {
	return func(p *Pipeline) { p.onAsyncError = fn }
}

// WithSelfTestDelay overrides the pause between startup pattern steps.
func WithSelfTestDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.selfTestDelay = d }
}

// New creates a pipeline sending through gate over the given connection.
// The settings value is the pipeline's initial read-only snapshot.
func New(conn Transport, gate ports.GatedSender, settings domain.Settings, logger log.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		conn:          conn,
		send:          gate,
		settings:      settings,
		selfTestDelay: selfTestStepDelay,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Settings returns the current settings snapshot.
func (p *Pipeline) Settings() domain.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// Cursor returns the rotation cursor position, for observability.
func (p *Pipeline) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Dispatch sends text to the active rotation slot: a set-text unit, then a
// trigger unit. On full success an auto-clear is (re)scheduled if enabled.
func (p *Pipeline) Dispatch(ctx context.Context, text string) (Result, error) {
	return p.dispatch(ctx, text, false)
}

// DispatchFresh is Dispatch with the dedup/throttle bypass set, for
// user-initiated re-sends of identical text.
func (p *Pipeline) DispatchFresh(ctx context.Context, text string) (Result, error) {
	return p.dispatch(ctx, text, true)
}

func (p *Pipeline) dispatch(ctx context.Context, text string, force bool) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn.State() != transport.StateConnected {
		return Result{}, domain.ErrNotConnected
	}

	st := p.settings
	slot := st.BaseClipSlot
	if st.RotationCount > 1 {
		// The cursor is consumed and advanced before the sends are
		// attempted; a failed slot still uses up its rotation turn.
		idx := p.cursor % st.RotationCount
		slot += idx
		p.cursor = (idx + 1) % st.RotationCount
	}

	res := Result{ID: uuid.New(), Slot: slot}
	p.logger.Debug("dispatching",
		log.String("id", res.ID.String()),
		log.Int("slot", slot),
		log.Int("chars", len(text)),
		log.Bool("force", force),
	)

	disp, err := p.send.Send(ctx, osc.SetTextMessage(st.Layer, slot, text), force)
	res.SetText = disp
	if err != nil {
		return res, &domain.DispatchError{Step: domain.StepSetText, Slot: slot, Err: err}
	}

	// Triggers are edges, not state: they always bypass dedup and throttle.
	disp, err = p.send.Send(ctx, osc.TriggerMessage(st.Layer, slot), true)
	res.Trigger = disp
	if err != nil {
		return res, &domain.DispatchError{Step: domain.StepTrigger, Slot: slot, Err: err}
	}

	if st.AutoClearEnabled {
		p.scheduleClearLocked(st.AutoClearDelay)
	}
	return res, nil
}

// Clear cancels any pending auto-clear and triggers the clear slot.
// Independent of the rotation cursor.
func (p *Pipeline) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clearLocked(ctx)
}

func (p *Pipeline) clearLocked(ctx context.Context) error {
	p.cancelClearLocked()
	if p.conn.State() != transport.StateConnected {
		return domain.ErrNotConnected
	}
	st := p.settings
	_, err := p.send.Send(ctx, osc.TriggerMessage(st.Layer, st.ClearSlot), true)
	return err
}

// scheduleClearLocked arms the one-shot auto-clear, canceling any prior
// timer first so the last dispatch wins. Callers must hold p.mu.
//
// Stop on an already-fired timer is a no-op, so a stale callback can still
// be waiting for p.mu when a newer dispatch re-arms the clear. The
// generation check inside the callback makes such a callback return
// without clearing.
func (p *Pipeline) scheduleClearLocked(delay time.Duration) {
	p.cancelClearLocked()
	gen := p.clearGen
	p.clearTimer = time.AfterFunc(delay, func() {
		p.mu.Lock()
		if gen != p.clearGen {
			// Superseded while waiting for the lock.
			p.mu.Unlock()
			return
		}
		err := p.clearLocked(context.Background())
		handler := p.onAsyncError
		p.mu.Unlock()
		if err != nil {
			p.logger.Warn("auto-clear failed", log.Err(err))
			if handler != nil {
				handler(err)
			}
		}
	})
}

// cancelClearLocked stops the pending timer and invalidates any callback
// that already fired. Callers must hold p.mu.
func (p *Pipeline) cancelClearLocked() {
	p.clearGen++
	if p.clearTimer != nil {
		p.clearTimer.Stop()
		p.clearTimer = nil
	}
}

// Close cancels the pending auto-clear timer, if any.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelClearLocked()
}

// ApplySettings replaces the settings snapshot. An endpoint change forces a
// disconnect and, if the connection was up, a reconnect. Rotation and slot
// fields take effect on the next dispatch; the cursor position is kept.
func (p *Pipeline) ApplySettings(ctx context.Context, next domain.Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	prev := p.settings
	p.settings = next
	endpointChanged := !prev.SameEndpoint(next)
	p.mu.Unlock()

	if !endpointChanged {
		return nil
	}

	wasUp := p.conn.State() == transport.StateConnected
	p.conn.Disconnect()
	if err := p.conn.SetAddr(next.Addr()); err != nil {
		return err
	}
	p.logger.Info("endpoint changed",
		log.String("addr", next.Addr()),
		log.Bool("reconnect", wasUp),
	)
	if wasUp {
		return p.conn.Connect(ctx)
	}
	return nil
}
