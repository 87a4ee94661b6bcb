package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktracker/internal/cache"
	"tasktracker/internal/config"
	"tasktracker/internal/db"
	httpServer "tasktracker/internal/http"
	"tasktracker/internal/http/handlers"
	"tasktracker/internal/logger"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
	"tasktracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	clock := service.SystemClock()
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, clock)
	authService := service.NewAuthService(repository.NewUserRepository(dbPool), tokens, clock)

	taskCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	taskService := service.NewTaskService(repository.NewTaskRepository(dbPool), taskCache, clock)

	hub := ws.NewHub()
	h := handlers.NewHandler(authService, taskService, tokens, hub)

	r := httpServer.NewRouter(h, dbPool, hub, version)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
