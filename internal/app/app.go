package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/swipechat-server/internal/config"
	"github.com/vovakirdan/swipechat-server/internal/core"
	"github.com/vovakirdan/swipechat-server/internal/relay"
	transporthttp "github.com/vovakirdan/swipechat-server/internal/transport/http"
)

// App wires together core, relay and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	hub := core.NewHub(logger)
	rel := relay.New(cfg.Relay, logger)
	server := transporthttp.NewServer(hub, rel, cfg, logger)

	logger.Info().
		Str("provider", cfg.Relay.BaseURL).
		Bool("relay_enabled", rel.Enabled()).
		Str("reply_provider", cfg.Relay.ReplyBaseURL).
		Bool("reply_enabled", rel.ReplyEnabled()).
		Bool("structured_output", cfg.Relay.StructuredOutput).
		Msg("review relay configured")

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}
}

// Run starts the hub and the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.hub.Run(hubCtx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
