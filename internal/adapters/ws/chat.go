package ws

import (
	"context"
	"errors"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleChat submits one inbound chat body. Blank bodies are dropped without
// a reply; other refusals go back to the sender only.
func (ctl *Controller) handleChat(ctx context.Context, member *core.Connection, body string) {
	if ctl.Limiter != nil && !ctl.Limiter.Allow(member.Identity.ID) {
		ctl.sendJSON(ctx, member, core.ErrorEvent(app.ErrorCode(domain.ErrRateLimited)))
		return
	}
	_, err := ctl.Orch.OnChat(ctx, member, body)
	switch {
	case err == nil, errors.Is(err, domain.ErrEmptyMessage):
		return
	default:
		log.Debug().Err(err).Str("module", "ws").Str("conn", string(member.ID)).Msg("chat refused")
		ctl.sendJSON(ctx, member, core.ErrorEvent(app.ErrorCode(err)))
	}
}
