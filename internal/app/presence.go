package app

import (
	"context"
	"time"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultStoreTimeout = 3 * time.Second

type viewerSet map[domain.UserID]struct{}

// Presence tracks the distinct identities viewing each session. It does not
// count connections per identity; callers decide when an identity's last
// connection is gone.
type Presence struct {
	sets         *shards[viewerSet]
	notify       *KeyedLock[domain.SessionID]
	hub          *Hub
	store        core.PresenceStore
	storeTimeout time.Duration
}

func NewPresence(hub *Hub, store core.PresenceStore, storeTimeout time.Duration) *Presence {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &Presence{
		sets:         newShards(func() viewerSet { return make(viewerSet) }),
		notify:       NewKeyedLock[domain.SessionID](),
		hub:          hub,
		store:        store,
		storeTimeout: storeTimeout,
	}
}

// Join adds who to the session. isNew is false when who was already present.
func (p *Presence) Join(ctx context.Context, sid domain.SessionID, who domain.Identity) (isNew bool, count int) {
	sh, _ := p.sets.acquire(sid)
	_, had := sh.val[who.ID]
	if !had {
		sh.val[who.ID] = struct{}{}
	}
	count = len(sh.val)
	p.sets.release(sid, sh, false)

	if had {
		return false, count
	}
	p.changed(ctx, sid, who.ID, true)
	return true, count
}

// Leave removes who from the session. Leaving when absent is a no-op.
func (p *Presence) Leave(ctx context.Context, sid domain.SessionID, who domain.Identity) (wasLast bool, count int) {
	sh, ok := p.sets.peek(sid)
	if !ok {
		return false, 0
	}
	_, had := sh.val[who.ID]
	delete(sh.val, who.ID)
	count = len(sh.val)
	p.sets.release(sid, sh, count == 0)

	if !had {
		return false, count
	}
	p.changed(ctx, sid, who.ID, false)
	return true, count
}

func (p *Presence) Count(sid domain.SessionID) int {
	sh, ok := p.sets.peek(sid)
	if !ok {
		return 0
	}
	defer p.sets.release(sid, sh, false)
	return len(sh.val)
}

func (p *Presence) has(sid domain.SessionID, uid domain.UserID) bool {
	sh, ok := p.sets.peek(sid)
	if !ok {
		return false
	}
	defer p.sets.release(sid, sh, false)
	_, ok = sh.val[uid]
	return ok
}

// changed publishes the count and then reconciles it to storage. Updates for
// one session are serialized and always carry the count current at that
// moment, so the last event a viewer sees is the true count.
func (p *Presence) changed(ctx context.Context, sid domain.SessionID, uid domain.UserID, present bool) {
	unlock := p.notify.Lock(sid)
	defer unlock()

	count := p.Count(sid)
	p.hub.Publish(ctx, sid, core.ViewerCountEvent(count))

	if p.store == nil {
		return
	}
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.storeTimeout)
	defer cancel()
	logger := log.With().
		Str("module", "app.presence").
		Str("session", sid.String()).
		Str("user", uid.String()).
		Logger()
	if err := p.store.UpsertViewerCount(storeCtx, sid, count); err != nil {
		logger.Warn().Err(err).Int("count", count).Msg("viewer count not persisted")
	}
	if err := p.store.RecordViewer(storeCtx, sid, uid, present); err != nil {
		logger.Warn().Err(err).Bool("present", present).Msg("viewer row not persisted")
	}
}
