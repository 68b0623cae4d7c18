package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultMaxMessageBytes = 2048

type ChatOptions struct {
	MaxMessageBytes int
	Censor          *Censor
	Metrics         core.Metrics
}

// ChatPipeline validates, persists and broadcasts chat messages. Persist and
// publish happen under one per-session lock, so every observer sees messages
// in commit order.
type ChatPipeline struct {
	store core.ChatStore
	hub   *Hub
	seq   *KeyedLock[domain.SessionID]
	opts  ChatOptions
}

func NewChatPipeline(store core.ChatStore, hub *Hub, opts ChatOptions) *ChatPipeline {
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if opts.Metrics == nil {
		opts.Metrics = core.NopMetrics{}
	}
	return &ChatPipeline{
		store: store,
		hub:   hub,
		seq:   NewKeyedLock[domain.SessionID](),
		opts:  opts,
	}
}

// Submit returns domain.ErrEmptyMessage for blank bodies; callers drop those
// silently. A storage failure suppresses the broadcast.
func (p *ChatPipeline) Submit(ctx context.Context, sid domain.SessionID, author domain.Identity, raw string) (*domain.ChatMessage, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return nil, domain.ErrEmptyMessage
	}
	if len(body) > p.opts.MaxMessageBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrMessageTooLong, len(body))
	}
	body = p.opts.Censor.Censor(body)

	unlock := p.seq.Lock(sid)
	msg, err := p.store.InsertChat(ctx, sid, author, body)
	if err != nil {
		unlock()
		log.Error().
			Err(err).
			Str("module", "app.chat").
			Str("session", sid.String()).
			Str("user", author.ID.String()).
			Msg("chat not persisted, broadcast suppressed")
		return nil, fmt.Errorf("%w: insert chat: %w", domain.ErrStorage, err)
	}
	report := p.hub.Publish(ctx, sid, core.ChatEvent(msg))
	unlock()

	p.opts.Metrics.ChatAccepted()
	log.Debug().
		Str("module", "app.chat").
		Str("session", sid.String()).
		Int64("id", msg.ID).
		Int("delivered", report.Delivered).
		Msg("chat broadcast")
	return &msg, nil
}
