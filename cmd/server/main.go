package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/auth"
	"github.com/oggyb/swipe-api/internal/cache"
	"github.com/oggyb/swipe-api/internal/config"
	"github.com/oggyb/swipe-api/internal/db"
	"github.com/oggyb/swipe-api/internal/logger"
	"github.com/oggyb/swipe-api/internal/server"
	"github.com/oggyb/swipe-api/internal/service/account"
	"github.com/oggyb/swipe-api/internal/service/discover"
	"github.com/oggyb/swipe-api/internal/service/match"
	"github.com/oggyb/swipe-api/internal/service/message"
	"github.com/oggyb/swipe-api/internal/service/profile"
	"github.com/oggyb/swipe-api/internal/service/swipe"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	appCtx := app.New(cfg, database, redisCache, tokens, log)

	if cfg.App.ENV == "development" {
		seedIfEmpty(appCtx)
	}

	authRoutes := account.NewRegistrar(appCtx)
	defer authRoutes.Close()

	router := server.NewRouter(appCtx,
		authRoutes,
		profile.NewRegistrar(appCtx),
		discover.NewRegistrar(appCtx),
		swipe.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		message.NewRegistrar(appCtx),
	)
	httpServer := server.NewServer(appCtx, router)
	grpcServer := server.NewGRPCServer(cfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting HTTP server", "addr", httpServer.Addr())
		if err := httpServer.Start(); err != nil {
			log.Error("HTTP server error", "err", err)
			quit <- syscall.SIGTERM
		}
	}()
	go func() {
		log.Info("starting gRPC health server", "addr", grpcServer.Addr())
		if err := grpcServer.Start(); err != nil {
			log.Error("gRPC server error", "err", err)
			quit <- syscall.SIGTERM
		}
	}()
	grpcServer.SetServing(true)

	sig := <-quit
	log.Info("shutting down", "signal", sig.String())

	grpcServer.SetServing(false)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("HTTP shutdown error", "err", err)
	}
	grpcServer.Stop()

	log.Info("server exited")
}

func seedIfEmpty(appCtx *app.AppContext) {
	empty, err := db.IsEmpty(appCtx.DB)
	if err != nil {
		appCtx.Logger.Error("failed to check seed state", "err", err)
		return
	}
	if !empty {
		return
	}
	if err := db.SeedTestData(appCtx.DB); err != nil {
		appCtx.Logger.Error("failed to seed", "err", err)
		return
	}
	appCtx.Logger.Info("seeded development data")
}
