// Command httpd runs the companion safety HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonesrussell/companion-safety/internal/api"
	"github.com/jonesrussell/companion-safety/internal/config"
	"github.com/jonesrussell/companion-safety/internal/crisis"
	"github.com/jonesrussell/companion-safety/internal/events"
	"github.com/jonesrussell/companion-safety/internal/geo"
	"github.com/jonesrussell/companion-safety/internal/guard"
	"github.com/jonesrussell/companion-safety/internal/identity"
	"github.com/jonesrussell/companion-safety/internal/logger"
	"github.com/jonesrussell/companion-safety/internal/safety"
	"github.com/jonesrussell/companion-safety/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Must(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	defer func() { _ = log.Sync() }()

	log.Info("starting safety service",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port))

	tp := telemetry.NewProvider()
	emitter := events.NewLogSink(log, tp)

	screener := crisis.NewScreener(log, crisis.Config{
		RecentWindow: cfg.Screening.RecentWindow,
	})

	resolver := geo.NewResolver(log, geo.Config{
		Endpoint:       cfg.Geolocation.Endpoint,
		Timeout:        cfg.Geolocation.Timeout,
		DefaultCountry: cfg.Geolocation.DefaultCountry,
		LookupsPerSec:  cfg.Geolocation.LookupsPerSec,
		LookupBurst:    cfg.Geolocation.LookupBurst,
	})

	g := guard.New(log, guard.Config{
		CooldownWindow:  cfg.Guard.CooldownWindow,
		SessionWindow:   cfg.Guard.SessionWindow,
		MaxPerSession:   cfg.Guard.MaxPerSession,
		MaxTrackedUsers: cfg.Guard.MaxTrackedUsers,
	})

	hasher := identity.NewHasher(cfg.Auth.IdentitySalt)

	service := safety.NewService(log, screener, resolver, g, hasher, emitter, tp)

	handler := api.NewHandler(service, log)
	router := api.NewRouter(handler, cfg, log, tp)
	server := api.NewServer(router, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := guard.NewSweeper(g, cfg.Guard.SweepInterval, log)
	go sweeper.Run(ctx)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down safety service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", logger.Error(err))
	}
}
