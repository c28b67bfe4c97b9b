package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conectar/console-gateway/internal/api"
	"github.com/conectar/console-gateway/internal/core/service"
	"github.com/conectar/console-gateway/internal/infrastructure/config"
	"github.com/conectar/console-gateway/internal/infrastructure/queue"
	"github.com/conectar/console-gateway/internal/infrastructure/remote"
	"github.com/conectar/console-gateway/internal/infrastructure/simulated"
	"github.com/conectar/console-gateway/internal/infrastructure/store"
	"github.com/conectar/console-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "console-gateway",
		Env:     cfg.Env,
	})

	kv, closeKV, err := openKV(ctx, cfg, logger.Component("kv"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open key-value store")
	}
	defer closeKV()

	q := queue.NewSerial(logger.Component("queue"))
	q.Start(ctx)

	collections := store.New(kv, cfg.Store.Prefix, logger.Component("store"))
	sessions := store.NewSessions(kv, cfg.Store.Prefix, logger.Component("session"))

	sim := simulated.New(ctx, collections, q, simulated.Options{
		Delay:       cfg.Simulated.Delay,
		FailureRate: cfg.Simulated.FailureRate,
		JWTSecret:   cfg.JWTSecret,
	}, logger.Component("simulated"))

	backend := remote.New(remote.Config{
		BaseURL:       cfg.BackendURL(),
		Timeout:       cfg.Backend.Timeout,
		HealthTimeout: cfg.Health.Timeout,
	}, sessions, logger.Component("remote"))

	monitor := service.NewHealthMonitor(backend, logger.Component("health"),
		service.WithMaxFailures(cfg.Health.MaxFailures),
		service.WithProbeInterval(cfg.Health.ProbeInterval),
	)
	go monitor.Watch(ctx, cfg.Health.WatchInterval)

	svc := service.NewConsoleService(backend, sim, monitor, sessions, logger.Component("dispatch"))

	e := api.NewRouter(api.Deps{
		Service:  svc,
		Sessions: sessions,
		KV:       kv,
		Logger:   logger.Component("http"),
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("backend", cfg.BackendURL()).Str("store", cfg.Store.Driver).Msg("console gateway listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("shutdown complete")
}
