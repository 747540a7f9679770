package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/terracasa/realty-system/internal/api"
	"github.com/terracasa/realty-system/internal/core/service"
	"github.com/terracasa/realty-system/internal/infrastructure/config"
	mongodb "github.com/terracasa/realty-system/internal/infrastructure/db/mongo"
	redisdb "github.com/terracasa/realty-system/internal/infrastructure/db/redis"
	"github.com/terracasa/realty-system/internal/infrastructure/queue"
	"github.com/terracasa/realty-system/internal/infrastructure/storage"
	"github.com/terracasa/realty-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	images, err := storage.NewS3ImageStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("image store initialisation failed")
	}

	auditWriter := service.NewAuditWriter(mongodb.NewAuditRepository(db))
	dispatcher := queue.NewDispatcher(0, auditWriter, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, images, dispatcher, cfg)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting api server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
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
