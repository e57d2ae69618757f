package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusconnect/alumni-api/internal/api"
	"github.com/campusconnect/alumni-api/internal/infrastructure/config"
	mongodb "github.com/campusconnect/alumni-api/internal/infrastructure/db/mongo"
	redisdb "github.com/campusconnect/alumni-api/internal/infrastructure/db/redis"
	"github.com/campusconnect/alumni-api/internal/infrastructure/queue"
	"github.com/campusconnect/alumni-api/internal/realtime"
	"github.com/campusconnect/alumni-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log := logger.Get()

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
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	identityRepo := mongodb.NewIdentityRepository(db)
	convRepo := mongodb.NewConversationRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	if err := identityRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("identity index setup failed")
	}
	if err := convRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("conversation index setup failed")
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("post index setup failed")
	}

	registry := realtime.NewRegistry(log)
	dispatcher := queue.NewDispatcher(0, registry, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, log, registry, dispatcher)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
