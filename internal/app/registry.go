package app

import (
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

type AttachResult struct {
	// Created is true when this attach brought the session into existence.
	Created          bool
	FirstForIdentity bool
}

type DetachResult struct {
	Removed         bool
	LastForIdentity bool
	// Destroyed is true when this detach emptied and dropped the session.
	Destroyed bool
}

// Registry maps a session to its attached connections. Pure bookkeeping:
// every lock is scoped to a single session.
type Registry struct {
	sessions *shards[*connSet]
}

func NewRegistry() *Registry {
	return &Registry{sessions: newShards(newConnSet)}
}

func (r *Registry) Attach(c *core.Connection) AttachResult {
	sh, created := r.sessions.acquire(c.Session)
	first := sh.val.add(c)
	size := sh.val.len()
	r.sessions.release(c.Session, sh, false)

	log.Debug().
		Str("module", "app.registry").
		Str("session", c.Session.String()).
		Str("conn", string(c.ID)).
		Str("user", c.Identity.ID.String()).
		Int("size", size).
		Msg("attached")
	return AttachResult{Created: created, FirstForIdentity: first}
}

// Detach is idempotent: detaching an absent connection is a no-op.
func (r *Registry) Detach(c *core.Connection) DetachResult {
	sh, ok := r.sessions.peek(c.Session)
	if !ok {
		return DetachResult{}
	}
	removed, last := sh.val.remove(c)
	empty := removed && sh.val.len() == 0
	r.sessions.release(c.Session, sh, empty)

	if removed {
		log.Debug().
			Str("module", "app.registry").
			Str("session", c.Session.String()).
			Str("conn", string(c.ID)).
			Bool("destroyed", empty).
			Msg("detached")
	}
	return DetachResult{Removed: removed, LastForIdentity: last, Destroyed: empty}
}

// ForEach applies fn to a snapshot, so fn may detach freely.
func (r *Registry) ForEach(sid domain.SessionID, fn func(*core.Connection)) {
	for _, c := range r.Snapshot(sid) {
		fn(c)
	}
}

func (r *Registry) Snapshot(sid domain.SessionID) []*core.Connection {
	sh, ok := r.sessions.peek(sid)
	if !ok {
		return nil
	}
	defer r.sessions.release(sid, sh, false)
	return sh.val.snapshot()
}

// ConnectionsOf returns the connections uid holds on sid.
func (r *Registry) ConnectionsOf(sid domain.SessionID, uid domain.UserID) []*core.Connection {
	sh, ok := r.sessions.peek(sid)
	if !ok {
		return nil
	}
	defer r.sessions.release(sid, sh, false)
	return sh.val.ofUser(uid)
}

func (r *Registry) Len(sid domain.SessionID) int {
	sh, ok := r.sessions.peek(sid)
	if !ok {
		return 0
	}
	defer r.sessions.release(sid, sh, false)
	return sh.val.len()
}

func (r *Registry) Sessions() []domain.SessionID { return r.sessions.ids() }
