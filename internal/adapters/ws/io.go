package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	ticker := time.NewTicker(ctl.Opts.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			c.Close(app.CloseGoingAway, "server shutdown")
			return
		case data := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(ctl.Opts.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				c.Close(app.CloseInternalError, "write failed")
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "ws").Msg("writePump write error")
				c.Close(app.CloseInternalError, "write failed")
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(ctl.Opts.WriteTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Warn().Err(err).Str("module", "ws").Msg("writePump ping error")
				c.Close(app.CloseInternalError, "ping failed")
				return
			}
		}
	}
}

// readPump owns the connection lifetime: whatever ends it, the deferred
// release runs exactly once.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, member *core.Connection, c *Conn) {
	logger := log.With().
		Str("module", "ws").
		Str("session", member.Session.String()).
		Str("conn", string(member.ID)).
		Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("readPump panic recovered")
		}
		ctl.Orch.Release(context.WithoutCancel(ctx), member)
		c.Close(app.CloseNormal, "")
		cancel()
		logger.Info().Msg("readPump closing")
	}()

	pongWait := ctl.Opts.PingPeriod * 10 / 9
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, app.ClosePolicyViolation) {
				logger.Warn().Err(err).Msg("readPump read error")
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		ctl.handleFrame(ctx, member, data)
	}
}

// inbound is the client frame: {"type":"ping"} or {"data":{"message":"..."}}.
type inbound struct {
	Type string `json:"type"`
	Data struct {
		Message string `json:"message"`
	} `json:"data"`
}

func (ctl *Controller) handleFrame(ctx context.Context, member *core.Connection, data []byte) {
	var in inbound
	if err := json.Unmarshal(data, &in); err != nil {
		log.Debug().Err(err).Str("module", "ws").Str("conn", string(member.ID)).Msg("bad json")
		ctl.sendJSON(ctx, member, core.ErrorEvent("bad_payload"))
		return
	}
	switch in.Type {
	case "ping":
		ctl.handlePing(ctx, member)
	case "", "chat", "chat_message":
		ctl.handleChat(ctx, member, in.Data.Message)
	default:
		log.Debug().Str("module", "ws").Str("type", in.Type).Msg("unknown frame type")
	}
}

func (ctl *Controller) sendJSON(ctx context.Context, member *core.Connection, ev core.Event) {
	if err := ctl.Orch.Hub.SendTo(ctx, member, ev); err != nil {
		log.Debug().Err(err).Str("module", "ws").Str("conn", string(member.ID)).Msg("sendJSON")
	}
}
