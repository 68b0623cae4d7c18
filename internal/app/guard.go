package app

import (
	"context"
	"fmt"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Releaser detaches a connection and reconciles everything derived from it.
// It reports whether the connection was still attached.
type Releaser interface {
	Release(ctx context.Context, c *core.Connection) bool
}

// Guard evicts banned identities from the sessions their moderator owns.
type Guard struct {
	registry *Registry
	owners   core.Ownership
	releaser Releaser
	metrics  core.Metrics
}

func NewGuard(registry *Registry, owners core.Ownership, releaser Releaser, metrics core.Metrics) *Guard {
	if metrics == nil {
		metrics = core.NopMetrics{}
	}
	return &Guard{registry: registry, owners: owners, releaser: releaser, metrics: metrics}
}

// EnforceBan must run after the ban is committed, so that reconnects are
// refused by the pre-attach check. Calling it twice is harmless.
func (g *Guard) EnforceBan(ctx context.Context, moderator, target domain.UserID) (int, error) {
	sessions, err := g.owners.SessionsOwnedBy(ctx, moderator)
	if err != nil {
		return 0, fmt.Errorf("%w: sessions owned by %s: %w", domain.ErrStorage, moderator, err)
	}

	evicted := 0
	for _, sid := range sessions {
		for _, c := range g.registry.ConnectionsOf(sid, target) {
			if g.releaser.Release(ctx, c) {
				evicted++
			}
			c.Socket.Close(ClosePolicyViolation, "banned")
		}
	}

	g.metrics.BanEvicted(evicted)
	log.Info().
		Str("module", "app.guard").
		Str("moderator", moderator.String()).
		Str("target", target.String()).
		Int("sessions", len(sessions)).
		Int("evicted", evicted).
		Msg("ban enforced")
	return evicted, nil
}
