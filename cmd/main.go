package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/ProgrammerArk/Bank-API/internal/cache"
	"github.com/ProgrammerArk/Bank-API/internal/config"
	"github.com/ProgrammerArk/Bank-API/internal/handler"
	"github.com/ProgrammerArk/Bank-API/internal/logger"
	"github.com/ProgrammerArk/Bank-API/internal/models"
	"github.com/ProgrammerArk/Bank-API/internal/repository"
	"github.com/ProgrammerArk/Bank-API/internal/service"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()
	log := logger.Log

	cfg := config.Load()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("redis view cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	userViews := cache.NewViewCache[models.User](redisClient, 0, log)
	accountViews := cache.NewViewCache[models.Account](redisClient, 0, log)

	userService := service.NewUserService(store, userViews, log)
	accountService := service.NewAccountService(store, accountViews, log)
	transactionService := service.NewTransactionService(store, accountViews, log)

	router := handler.NewRouter(
		handler.NewUserHandler(userService, log),
		handler.NewAccountHandler(accountService, log),
		handler.NewTransactionHandler(transactionService, log),
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

func openStore(cfg config.Config) (repository.Store, error) {
	if cfg.Storage.Driver == "memory" {
		return repository.NewMemoryStore(), nil
	}

	store, err := repository.OpenPostgres(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
