package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/app/orch"
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrConnClosed = errors.New("connection closed")

const closeGrace = time.Second

type Options struct {
	ReadLimit    int64
	PingPeriod   time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 54 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	return o
}

// Conn is the websocket endpoint of one connection. It implements core.Socket.
type Conn struct {
	ws   *websocket.Conn
	send chan core.Frame
	done chan struct{}
	once sync.Once
}

func NewConn(ws *websocket.Conn, buffer int) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan core.Frame, buffer),
		done: make(chan struct{}),
	}
}

// Send enqueues f for the write pump. A full buffer blocks until ctx is done.
func (c *Conn) Send(ctx context.Context, f core.Frame) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- f:
		return nil
	case <-c.done:
		return ErrConnClosed
	case <-ctx.Done():
		return fmt.Errorf("send: %w", ctx.Err())
	}
}

// Close sends a close frame with code and tears the socket down. Idempotent.
func (c *Conn) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
		_ = c.ws.Close()
	})
}

func (c *Conn) Done() <-chan struct{} { return c.done }

// Controller serves the realtime endpoint of a stream.
type Controller struct {
	Orch    *orch.Orchestrator
	Limiter *RateLimiter
	Opts    Options

	upgrader websocket.Upgrader
}

func NewController(o *orch.Orchestrator, limiter *RateLimiter, opts Options) *Controller {
	return &Controller{
		Orch:    o,
		Limiter: limiter,
		Opts:    opts.withDefaults(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleStream upgrades the request, admits the connection and starts its
// pumps. Refusals are delivered as a close frame with a policy-violation code.
func (ctl *Controller) HandleStream(ctx context.Context, c *gin.Context) {
	sid, err := domain.ParseSessionID(c.Param("id"))
	credential := c.GetString("credential")

	ws, upErr := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if upErr != nil {
		log.Error().Err(upErr).Str("module", "ws").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Opts.ReadLimit)
	conn := NewConn(ws, ctl.Opts.SendBuffer)

	if err != nil {
		conn.Close(app.CloseCodeFor(fmt.Errorf("%w: %w", domain.ErrForbidden, err)))
		return
	}

	connCtx, cancel := context.WithCancel(ctx)
	go ctl.writePump(connCtx, conn)

	member, err := ctl.Orch.Admit(connCtx, sid, credential, conn)
	if err != nil {
		code, reason := app.CloseCodeFor(err)
		log.Info().Err(err).Str("module", "ws").Str("session", sid.String()).Int("code", code).Msg("connection refused")
		conn.Close(code, reason)
		cancel()
		return
	}
	go ctl.readPump(connCtx, cancel, member, conn)
}
