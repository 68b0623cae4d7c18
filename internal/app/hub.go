package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultSendTimeout = 2 * time.Second
	DefaultHubWorkers  = 32
)

type HubOptions struct {
	SendTimeout time.Duration
	Workers     int
	Metrics     core.Metrics
}

// EvictionHandler reconciles state that depends on evicted connections.
// It runs on its own goroutine, after the publish that evicted them.
type EvictionHandler func(ctx context.Context, evicted []core.Eviction)

// Hub fans a message out to every connection of a session. A failing socket
// is detached and closed; it never affects delivery to the others.
type Hub struct {
	registry *Registry
	opts     HubOptions

	mu      sync.Mutex
	idle    *sync.Cond
	onEvict EvictionHandler
	pending int
	closing bool
}

func NewHub(registry *Registry, opts HubOptions) *Hub {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultHubWorkers
	}
	if opts.Metrics == nil {
		opts.Metrics = core.NopMetrics{}
	}
	h := &Hub{registry: registry, opts: opts}
	h.idle = sync.NewCond(&h.mu)
	return h
}

func (h *Hub) OnEvict(fn EvictionHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEvict = fn
}

// Publish delivers ev to every connection currently attached to sid.
// Cancelling ctx does not abort fan-out: each socket gets SendTimeout.
func (h *Hub) Publish(ctx context.Context, sid domain.SessionID, ev core.Event) core.DeliveryReport {
	started := time.Now()
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Str("type", ev.Type).Msg("marshal event")
		return core.DeliveryReport{}
	}
	conns := h.registry.Snapshot(sid)
	if len(conns) == 0 {
		return core.DeliveryReport{}
	}

	base := context.WithoutCancel(ctx)
	var (
		mu  sync.Mutex
		res core.DeliveryReport
	)
	p := pool.New().WithMaxGoroutines(min(h.opts.Workers, len(conns)))
	for _, c := range conns {
		p.Go(func() {
			sendCtx, cancel := context.WithTimeout(base, h.opts.SendTimeout)
			err := c.Socket.Send(sendCtx, frame)
			cancel()
			if err == nil {
				mu.Lock()
				res.Delivered++
				mu.Unlock()
				return
			}
			gone := h.evict(c, err)
			mu.Lock()
			res.Evicted++
			if gone != nil {
				res.Evictions = append(res.Evictions, *gone)
			}
			mu.Unlock()
		})
	}
	p.Wait()

	h.opts.Metrics.Published(res.Delivered, res.Evicted, time.Since(started))
	log.Debug().
		Str("module", "app.hub").
		Str("session", sid.String()).
		Str("type", ev.Type).
		Int("delivered", res.Delivered).
		Int("evicted", res.Evicted).
		Msg("broadcast result")

	if len(res.Evictions) > 0 {
		h.dispatch(base, res.Evictions)
	}
	return res
}

// SendTo delivers ev to a single connection without touching the registry.
func (h *Hub) SendTo(ctx context.Context, c *core.Connection, ev core.Event) error {
	frame, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.opts.SendTimeout)
	defer cancel()
	if err := c.Socket.Send(sendCtx, frame); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	return nil
}

// Wait blocks until all dispatched eviction handlers have returned.
// Publishing concurrently with Wait is allowed.
func (h *Hub) Wait() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for h.pending > 0 {
		h.idle.Wait()
	}
}

// Close stops dispatching eviction handlers and waits for the ones in
// flight. Evictions found by later publishes are still detached and closed,
// but their handlers are not run.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()
	h.Wait()
}

func (h *Hub) evict(c *core.Connection, cause error) *core.Eviction {
	res := h.registry.Detach(c)
	c.Socket.Close(CloseInternalError, "send failed")
	log.Warn().
		Err(cause).
		Str("module", "app.hub").
		Str("session", c.Session.String()).
		Str("conn", string(c.ID)).
		Str("user", c.Identity.ID.String()).
		Msg("send failed, evicting connection")
	if !res.Removed {
		return nil
	}
	return &core.Eviction{
		Conn:             c,
		LastForIdentity:  res.LastForIdentity,
		SessionDestroyed: res.Destroyed,
		Err:              cause,
	}
}

func (h *Hub) dispatch(ctx context.Context, evicted []core.Eviction) {
	h.mu.Lock()
	fn := h.onEvict
	if fn == nil || h.closing {
		closing := h.closing
		h.mu.Unlock()
		if closing {
			log.Debug().
				Str("module", "app.hub").
				Int("evicted", len(evicted)).
				Msg("hub closing, eviction handler skipped")
		}
		return
	}
	h.pending++
	h.mu.Unlock()

	go func() {
		defer h.done()
		fn(ctx, evicted)
	}()
}

func (h *Hub) done() {
	h.mu.Lock()
	h.pending--
	if h.pending == 0 {
		h.idle.Broadcast()
	}
	h.mu.Unlock()
}
