package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/livecast/internal/adapters/auth"
	router "github.com/dkeye/livecast/internal/adapters/http"
	"github.com/dkeye/livecast/internal/adapters/memstore"
	"github.com/dkeye/livecast/internal/adapters/metrics"
	"github.com/dkeye/livecast/internal/adapters/postgres"
	"github.com/dkeye/livecast/internal/adapters/ws"
	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/app/orch"
	"github.com/dkeye/livecast/internal/config"
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()

	censor, err := app.NewCensor(cfg.Chat.CensoredWords, []rune(cfg.Chat.CensorChar)[0])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build censor")
	}

	promReg := metrics.NewRegistry()
	o := orch.New(orch.Deps{
		Store: store,
		Auth:  auth.NewJWTGate(cfg.JWTSecret, store),
		Hub: app.HubOptions{
			SendTimeout: cfg.WS.SendTimeout,
			Workers:     cfg.Hub.Workers,
		},
		Chat: app.ChatOptions{
			MaxMessageBytes: cfg.Chat.MaxMessageBytes,
			Censor:          censor,
		},
		StoreWait: cfg.StoreTimeout,
		Metrics:   metrics.New(promReg),
	})

	realtime := ws.NewController(o, ws.NewRateLimiter(cfg.Chat.RatePerSecond, cfg.Chat.Burst), ws.Options{
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		SendBuffer: cfg.WS.SendBuffer,
	})

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Orch:     o,
		Realtime: realtime,
		Metrics:  metrics.Handler(promReg),
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("livecast server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	o.Shutdown(shutdownCtx)
	log.Info().Msg("Server exited gracefully")
}

// openStore picks Postgres when a database url is configured and a seeded
// in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (core.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		mem := memstore.New()
		for _, u := range cfg.Seed.Users {
			mem.AddUser(domain.Identity{ID: domain.UserID(u.ID), Username: u.Username})
		}
		for _, s := range cfg.Seed.Streams {
			mem.AddStream(domain.SessionID(s.ID), domain.UserID(s.Owner))
		}
		log.Warn().Str("module", "main").Int("users", len(cfg.Seed.Users)).Msg("using in-memory store")
		return mem, func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return postgres.NewStore(pool), pool.Close, nil
}
