package ws

import (
	"context"

	"github.com/dkeye/livecast/internal/core"
)

func (ctl *Controller) handlePing(ctx context.Context, member *core.Connection) {
	ctl.sendJSON(ctx, member, core.PongEvent())
}
