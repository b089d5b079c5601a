package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/gestao-stock/internal/alerts"
	"github.com/rogerio-castellano/gestao-stock/internal/config"
	"github.com/rogerio-castellano/gestao-stock/internal/db"
	"github.com/rogerio-castellano/gestao-stock/internal/http/handlers"
	"github.com/rogerio-castellano/gestao-stock/internal/http/router"
	"github.com/rogerio-castellano/gestao-stock/internal/logger"
	"github.com/rogerio-castellano/gestao-stock/internal/metrics"
	"github.com/rogerio-castellano/gestao-stock/internal/redissvc"
	"github.com/rogerio-castellano/gestao-stock/internal/repo"
	"github.com/rogerio-castellano/gestao-stock/internal/validation"
)

// @title Gestão de Stock API
// @version 1.0
// @description REST API for managing stock products and low-stock alerts.
// @host localhost:3000
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("could not load configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	handlers.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks handlers.HealthChecks
	var metricsRepo repo.MetricsRepository

	switch cfg.StoreDriver {
	case config.DriverMemory:
		productRepo := repo.NewInMemoryProductRepository()
		handlers.SetProductRepo(productRepo)
		metricsRepo = repo.NewInMemoryMetricsRepository(productRepo)
		log.Warn("using in-memory product store; data is lost on restart")
	default:
		database, err := db.Connect(cfg)
		if err != nil {
			log.WithError(err).Fatal("could not connect to database")
		}
		defer database.Close()

		handlers.SetProductRepo(repo.NewPostgresProductRepository(database, cfg.QueryTimeout, log))
		metricsRepo = repo.NewPostgresMetricsRepository(database, cfg.QueryTimeout)
		checks.Database = handlers.PingFunc(database.PingContext)
		log.WithField("max_open_conns", cfg.MaxOpenConns).Info("connected to postgres")
	}
	handlers.SetMetricsRepo(metricsRepo)

	if cfg.RedisURL != "" {
		redisService, err := redissvc.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("could not connect to redis")
		}
		defer redisService.Close()

		handlers.SetNotifier(alerts.NewRedisNotifier(redisService, cfg.LowStockAlertLimit, log))
		checks.Redis = redisService
		log.Info("low-stock alerts stored in redis")
	}
	handlers.SetHealthChecks(checks)

	registry := metrics.NewRegistry()
	registry.RegisterStock(metricsRepo, validation.LowStockThreshold)

	r := router.NewRouter(router.Options{
		Logger:             log,
		Metrics:            registry,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
