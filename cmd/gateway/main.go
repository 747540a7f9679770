package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/terracasa/realty-system/internal/gateway"
	"github.com/terracasa/realty-system/internal/infrastructure/config"
	"github.com/terracasa/realty-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proxy := gateway.New(cfg.Gateway.BackendURL, cfg.Production(), log)
	e := gateway.NewRouter(proxy)

	go func() {
		log.Info().
			Str("port", cfg.Gateway.Port).
			Str("backend", cfg.Gateway.BackendURL).
			Msg("starting gateway")
		if err := e.Start(":" + cfg.Gateway.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("gateway stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
