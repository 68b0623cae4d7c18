package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Admit authenticates the credential, checks the session and the ban list,
// then attaches s to the session. Every refusal happens before attach.
func (o *Orchestrator) Admit(ctx context.Context, sid domain.SessionID, credential string, s core.Socket) (*core.Connection, error) {
	who, err := o.Auth.Resolve(ctx, credential)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) && !errors.Is(err, domain.ErrStorage) {
			err = fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
		}
		o.Metrics.ConnectionRejected("unauthorized")
		return nil, err
	}
	if err := o.checkAllowed(ctx, sid, who); err != nil {
		return nil, err
	}

	c := core.NewConnection(sid, who, s)
	unlock := o.identities.Lock(identityKey{sid, who.ID})
	res := o.Registry.Attach(c)
	joined := o.syncPresence(ctx, sid, who)
	unlock()

	o.Metrics.ConnectionAttached()
	if res.Created {
		o.Metrics.SessionOpened()
	}

	// A ban committed between the check and the attach may have been
	// enforced before this connection was visible.
	if err := o.checkAllowed(ctx, sid, who); err != nil {
		o.Release(ctx, c)
		return nil, err
	}

	if !joined {
		if err := o.Hub.SendTo(ctx, c, core.ViewerCountEvent(o.Presence.Count(sid))); err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("conn", string(c.ID)).Msg("initial viewer count not sent")
		}
	}
	log.Info().
		Str("module", "orch").
		Str("session", sid.String()).
		Str("user", who.ID.String()).
		Str("conn", string(c.ID)).
		Bool("new_viewer", joined).
		Msg("connection admitted")
	return c, nil
}

// Release detaches c and reconciles presence. Safe to call any number of
// times; only the first call that finds c attached returns true.
func (o *Orchestrator) Release(ctx context.Context, c *core.Connection) bool {
	unlock := o.identities.Lock(identityKey{c.Session, c.Identity.ID})
	res := o.Registry.Detach(c)
	if res.Removed {
		o.syncPresence(ctx, c.Session, c.Identity)
	}
	unlock()

	if !res.Removed {
		return false
	}
	o.Metrics.ConnectionDetached()
	if res.Destroyed {
		o.Metrics.SessionClosed()
	}
	log.Info().
		Str("module", "orch").
		Str("session", c.Session.String()).
		Str("user", c.Identity.ID.String()).
		Str("conn", string(c.ID)).
		Bool("last_for_user", res.LastForIdentity).
		Msg("connection released")
	return true
}

// EvictSession closes and releases every connection of a session.
func (o *Orchestrator) EvictSession(ctx context.Context, sid domain.SessionID, code int, reason string) int {
	n := 0
	o.Registry.ForEach(sid, func(c *core.Connection) {
		if o.Release(ctx, c) {
			n++
		}
		c.Socket.Close(code, reason)
	})
	return n
}

// Shutdown evicts every session with a going-away close, then stops
// eviction handling on the hub and waits for handlers in flight.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	for _, sid := range o.Registry.Sessions() {
		o.EvictSession(ctx, sid, app.CloseGoingAway, "server shutdown")
	}
	o.Hub.Close()
}

func (o *Orchestrator) checkAllowed(ctx context.Context, sid domain.SessionID, who domain.Identity) error {
	owner, err := o.Owners.OwnerOf(ctx, sid)
	if errors.Is(err, domain.ErrSessionNotFound) {
		o.Metrics.ConnectionRejected("unknown_session")
		return fmt.Errorf("%w: %w", domain.ErrForbidden, err)
	}
	if err != nil {
		o.Metrics.ConnectionRejected("storage")
		return fmt.Errorf("%w: owner of %s: %w", domain.ErrStorage, sid, err)
	}
	banned, err := o.Bans.IsBanned(ctx, owner, who.ID)
	if err != nil {
		o.Metrics.ConnectionRejected("storage")
		return fmt.Errorf("%w: ban lookup: %w", domain.ErrStorage, err)
	}
	if banned {
		o.Metrics.ConnectionRejected("banned")
		return fmt.Errorf("%w: %s is banned by %s", domain.ErrForbidden, who.ID, owner)
	}
	return nil
}

// reconcile re-derives presence for who on sid from the registry.
func (o *Orchestrator) reconcile(ctx context.Context, sid domain.SessionID, who domain.Identity) {
	unlock := o.identities.Lock(identityKey{sid, who.ID})
	defer unlock()
	o.syncPresence(ctx, sid, who)
}

// syncPresence must run under who's identity lock. Presence is derived from
// the registry rather than from the event that triggered it, so interleaved
// attach, detach and eviction always converge.
func (o *Orchestrator) syncPresence(ctx context.Context, sid domain.SessionID, who domain.Identity) (joined bool) {
	if len(o.Registry.ConnectionsOf(sid, who.ID)) > 0 {
		joined, _ = o.Presence.Join(ctx, sid, who)
		return joined
	}
	o.Presence.Leave(ctx, sid, who)
	return false
}
