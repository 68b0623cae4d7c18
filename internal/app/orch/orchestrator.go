package orch

import (
	"context"
	"time"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator owns the connection lifecycle: admission, release and the
// presence bookkeeping derived from the registry.
type Orchestrator struct {
	Registry *app.Registry
	Presence *app.Presence
	Hub      *app.Hub
	Chat     *app.ChatPipeline
	Guard    *app.Guard

	Auth    core.AuthGate
	Owners  core.Ownership
	Bans    core.BanStore
	Metrics core.Metrics

	identities *app.KeyedLock[identityKey]
}

type identityKey struct {
	session domain.SessionID
	user    domain.UserID
}

type Deps struct {
	Store     core.Store
	Auth      core.AuthGate
	Hub       app.HubOptions
	Chat      app.ChatOptions
	StoreWait time.Duration
	Metrics   core.Metrics
}

// New wires the realtime core around a registry and hooks hub evictions
// back into presence reconciliation.
func New(d Deps) *Orchestrator {
	if d.Metrics == nil {
		d.Metrics = core.NopMetrics{}
	}
	d.Hub.Metrics = d.Metrics
	d.Chat.Metrics = d.Metrics

	reg := app.NewRegistry()
	hub := app.NewHub(reg, d.Hub)
	o := &Orchestrator{
		Registry:   reg,
		Hub:        hub,
		Presence:   app.NewPresence(hub, d.Store, d.StoreWait),
		Chat:       app.NewChatPipeline(d.Store, hub, d.Chat),
		Auth:       d.Auth,
		Owners:     d.Store,
		Bans:       d.Store,
		Metrics:    d.Metrics,
		identities: app.NewKeyedLock[identityKey](),
	}
	o.Guard = app.NewGuard(reg, d.Store, o, d.Metrics)
	hub.OnEvict(o.OnEvicted)
	return o
}

// OnChat runs the inbound chat path for an attached connection.
func (o *Orchestrator) OnChat(ctx context.Context, c *core.Connection, raw string) (*domain.ChatMessage, error) {
	return o.Chat.Submit(ctx, c.Session, c.Identity, raw)
}

// OnEvicted reconciles presence for connections the hub dropped.
func (o *Orchestrator) OnEvicted(ctx context.Context, evicted []core.Eviction) {
	for _, ev := range evicted {
		o.Metrics.ConnectionDetached()
		if ev.SessionDestroyed {
			o.Metrics.SessionClosed()
		}
		o.reconcile(ctx, ev.Conn.Session, ev.Conn.Identity)
		log.Info().
			Str("module", "orch").
			Str("session", ev.Conn.Session.String()).
			Str("conn", string(ev.Conn.ID)).
			Msg("evicted connection reconciled")
	}
}
