package http

import (
	"context"
	stdhttp "net/http"
	"strings"

	"github.com/dkeye/livecast/internal/adapters/ws"
	"github.com/dkeye/livecast/internal/app/orch"
	"github.com/dkeye/livecast/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const credentialKey = "credential"

// CredentialMiddleware stores the bearer credential under "credential". The
// token query parameter wins because browsers cannot set headers on a
// websocket upgrade.
func CredentialMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			h := c.GetHeader("Authorization")
			if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
				token = strings.TrimSpace(rest)
			}
		}
		c.Set(credentialKey, token)
		c.Next()
	}
}

type Deps struct {
	Orch     *orch.Orchestrator
	Realtime *ws.Controller
	Metrics  stdhttp.Handler
}

func SetupRouter(ctx context.Context, cfg *config.Config, d Deps) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, gin.H{"status": "ok", "sessions": len(d.Orch.Registry.Sessions())})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	h := &handlers{orch: d.Orch}
	api := r.Group("/api")
	api.Use(CredentialMiddleware())

	stream := func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("stream", c.Param("id")).Msg("ws endpoint hit")
		d.Realtime.HandleStream(ctx, c)
	}
	api.GET("/ws/streams/:id/chat", stream)
	api.GET("/ws/streams/:id/viewer", stream)

	api.GET("/streams/:id/presence", h.presence)

	bans := api.Group("/bans", h.authenticate)
	bans.GET("", h.listBans)
	bans.POST("", h.createBan)
	bans.DELETE("/:user_id", h.deleteBan)

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
