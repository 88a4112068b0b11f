package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signaltracker/tracker-api/internal/api"
	"github.com/signaltracker/tracker-api/internal/core/service"
	"github.com/signaltracker/tracker-api/internal/infrastructure/crypto"
	mongodb "github.com/signaltracker/tracker-api/internal/infrastructure/db/mongo"
	redisdb "github.com/signaltracker/tracker-api/internal/infrastructure/db/redis"
	"github.com/signaltracker/tracker-api/internal/infrastructure/queue"
	"github.com/signaltracker/tracker-api/internal/pkg/config"
	"github.com/signaltracker/tracker-api/pkg/logger"
)

// @title           Signal Tracker API
// @version         1.0
// @description     Backend for the mobile signal tracking app: users, devices, readings and cell towers.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	if cfg.AppClientKey == "" {
		log.Fatal().Msg("APP_CLIENT_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories and services ---
	userRepo := mongodb.NewUserRepository(db)
	deviceRepo := mongodb.NewDeviceRepository(db)
	readingRepo := mongodb.NewReadingRepository(db)
	towerRepo := mongodb.NewCellTowerRepository(db)

	creds := crypto.NewBcryptVerifier(cfg.BcryptCost)
	dedup := redisdb.NewIngestDedup(rdb)

	userService := service.NewUserService(userRepo, deviceRepo, creds, log)
	deviceService := service.NewDeviceService(deviceRepo, readingRepo, userRepo, log)
	readingService := service.NewReadingService(readingRepo, deviceRepo, userRepo, towerRepo, dedup, log)
	towerService := service.NewCellTowerService(towerRepo, log)
	authService := service.NewAuthService(userRepo, creds, cfg.JWTSecret, cfg.TokenTTL, log)

	dispatcher := queue.NewDispatcher(cfg.IngestWorkers, readingService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Users:      userService,
		Devices:    deviceService,
		Readings:   readingService,
		CellTowers: towerService,
		Auth:       authService,
		Batch:      dispatcher,
		Mongo:      db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		AppKey:     cfg.AppClientKey,
		Log:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("signal tracker api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
