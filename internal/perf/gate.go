package perf

import (
	"context"
	"sync"
	"time"

	"github.com/stagecast/textship/internal/osc"
	"github.com/stagecast/textship/internal/ports"
	"github.com/stagecast/textship/pkg/log"
)

// Default gate tuning.
const (
	DefaultDedupTTL       = 5 * time.Minute
	DefaultThrottleWindow = 100 * time.Millisecond
	DefaultPoolInterval   = 50 * time.Millisecond
	DefaultSweepInterval  = 60 * time.Second
)

// Options configures a Gate.
type Options struct {
	// Dedup suppresses identical messages within DedupTTL.
	Dedup    bool
	DedupTTL time.Duration

	// Throttle suppresses identical messages within ThrottleWindow,
	// independently of dedup.
	Throttle       bool
	ThrottleWindow time.Duration

	// Pooling batches messages per address on PoolInterval. Off by default:
	// coalescing drops intermediate payloads for an address.
	Pooling      bool
	PoolInterval time.Duration

	// SweepInterval controls how often expired cache entries are removed.
	SweepInterval time.Duration
}

// DefaultOptions returns Options with dedup and throttle enabled and
// pooling disabled.
func DefaultOptions() Options {
	return Options{
		Dedup:          true,
		DedupTTL:       DefaultDedupTTL,
		Throttle:       true,
		ThrottleWindow: DefaultThrottleWindow,
		Pooling:        false,
		PoolInterval:   DefaultPoolInterval,
		SweepInterval:  DefaultSweepInterval,
	}
}

func (o *Options) fillDefaults() {
	if o.DedupTTL <= 0 {
		o.DedupTTL = DefaultDedupTTL
	}
	if o.ThrottleWindow <= 0 {
		o.ThrottleWindow = DefaultThrottleWindow
	}
	if o.PoolInterval <= 0 {
		o.PoolInterval = DefaultPoolInterval
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = DefaultSweepInterval
	}
}

// Gate sits between the dispatch pipeline and the transport connection.
// It implements ports.GatedSender.
type Gate struct {
	mu     sync.Mutex
	sender ports.UnitSender
	opts   Options

	// lastSent records the last transmission time per content hash and
	// backs both the dedup cache and the throttle window.
	lastSent map[uint64]time.Time

	pool      map[string]osc.Message
	poolOrder []string

	stats counters

	wg sync.WaitGroup

	logger log.Logger
}

type counters struct {
	cacheHits      uint64
	cacheMisses    uint64
	throttled      uint64
	pooledBatches  uint64
	pooledMessages uint64
}

// New creates a gate in front of sender.
func New(sender ports.UnitSender, logger log.Logger, opts Options) *Gate {
	opts.fillDefaults()
	return &Gate{
		sender:   sender,
		opts:     opts,
		lastSent: make(map[uint64]time.Time),
		pool:     make(map[string]osc.Message),
		logger:   logger,
	}
}

// Send passes msg through dedup, throttle, and the pool before handing it
// to the transport. Suppressed messages resolve as no-op success. force
// bypasses dedup and throttle for user-initiated re-sends; pooled delivery
// still applies so unit ordering within a flush tick is preserved.
func (g *Gate) Send(ctx context.Context, msg osc.Message, force bool) (ports.Disposition, error) {
	key := msg.Key()
	now := time.Now()

	g.mu.Lock()
	if !force {
		if last, ok := g.lastSent[key]; ok {
			age := now.Sub(last)
			if g.opts.Dedup && age < g.opts.DedupTTL {
				g.stats.cacheHits++
				g.mu.Unlock()
				return ports.DispositionDeduped, nil
			}
			if g.opts.Throttle && age < g.opts.ThrottleWindow {
				g.stats.throttled++
				g.mu.Unlock()
				return ports.DispositionThrottled, nil
			}
		}
	}
	g.stats.cacheMisses++

	if g.opts.Pooling {
		// The cache entry is recorded at flush time, once the payload is
		// actually transmitted. A pooled payload that a later one
		// coalesces away must not suppress an identical send afterwards.
		if _, ok := g.pool[msg.Address]; !ok {
			g.poolOrder = append(g.poolOrder, msg.Address)
		}
		g.pool[msg.Address] = msg
		g.mu.Unlock()
		return ports.DispositionPooled, nil
	}
	g.lastSent[key] = now
	g.mu.Unlock()

	if err := g.sender.Send(ctx, msg); err != nil {
		return ports.DispositionSent, err
	}
	return ports.DispositionSent, nil
}

// Flush atomically drains the pool and transmits the batch, one datagram
// per address, in first-enqueue order. On a send failure the remaining
// messages are still attempted; the first error is returned.
func (g *Gate) Flush(ctx context.Context) error {
	g.mu.Lock()
	if len(g.poolOrder) == 0 {
		g.mu.Unlock()
		return nil
	}
	batch := make([]osc.Message, 0, len(g.poolOrder))
	for _, addr := range g.poolOrder {
		batch = append(batch, g.pool[addr])
	}
	g.pool = make(map[string]osc.Message)
	g.poolOrder = g.poolOrder[:0]
	g.stats.pooledBatches++
	g.stats.pooledMessages += uint64(len(batch))
	g.mu.Unlock()

	var first error
	var delivered []uint64
	for _, msg := range batch {
		if err := g.sender.Send(ctx, msg); err != nil {
			g.logger.Warn("pool flush send failed",
				log.String("address", msg.Address),
				log.Err(err),
			)
			if first == nil {
				first = err
			}
			continue
		}
		delivered = append(delivered, msg.Key())
	}

	if len(delivered) > 0 {
		sentAt := time.Now()
		g.mu.Lock()
		for _, key := range delivered {
			g.lastSent[key] = sentAt
		}
		g.mu.Unlock()
	}
	return first
}

// Start launches the background pool-flush and cache-sweep loops. They stop
// when ctx is canceled; Wait blocks until both have exited.
func (g *Gate) Start(ctx context.Context) {
	if g.opts.Pooling {
		g.wg.Add(1)
		go g.flushLoop(ctx)
	}
	g.wg.Add(1)
	go g.sweepLoop(ctx)
}

// Wait blocks until the background loops have exited.
func (g *Gate) Wait() {
	g.wg.Wait()
}

func (g *Gate) flushLoop(ctx context.Context) {
	defer g.wg.Done()
	ticker := time.NewTicker(g.opts.PoolInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Final drain so shutdown does not strand queued messages.
			if err := g.Flush(context.Background()); err != nil {
				g.logger.Warn("final pool flush failed", log.Err(err))
			}
			return
		case <-ticker.C:
			if err := g.Flush(ctx); err != nil {
				g.logger.Warn("pool flush failed", log.Err(err))
			}
		}
	}
}

func (g *Gate) sweepLoop(ctx context.Context) {
	defer g.wg.Done()
	ticker := time.NewTicker(g.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep(time.Now())
		}
	}
}

// sweep removes cache entries whose last transmission exceeds the TTL.
func (g *Gate) sweep(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for key, last := range g.lastSent {
		if now.Sub(last) >= g.opts.DedupTTL {
			delete(g.lastSent, key)
			removed++
		}
	}
	if removed > 0 {
		g.logger.Debug("cache sweep", log.Int("removed", removed))
	}
}

// CacheSize returns the number of live cache entries, for observability.
func (g *Gate) CacheSize() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.lastSent)
}
