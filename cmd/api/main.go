package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/go-optimization-backend/config"
	httpapi "github.com/GoSim-25-26J-441/go-optimization-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/bootstrap"
	cronjob "github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/cron"
	opthttp "github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/http"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/repository"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/service"
	"go.uber.org/zap"
)

const serviceName = "go-optimization-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)
	ctx := context.Background()

	var (
		store  service.SessionStore
		pinger httpapi.Pinger
	)
	if cfg.UsesRedis() {
		client, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("redis unavailable", zap.Error(err))
		}
		defer client.Close()
		redisStore := repository.NewRedisSessionStore(client, cfg.Session.TTL)
		store, pinger = redisStore, redisStore
		logger.Info("sessions stored in redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		memStore := repository.NewMemorySessionStore(cfg.Session.TTL)
		store = memStore
		scheduler := cronjob.NewScheduler(memStore, logger)
		if err := scheduler.Start(cfg.Session.SweepSpec); err != nil {
			logger.Fatal("session sweeper", zap.Error(err))
		}
		defer scheduler.Stop()
		logger.Info("sessions stored in memory")
	}

	solver := opthttp.NewSolverClient(opthttp.SolverClientConfig{
		BaseURL: cfg.Solver.BaseURL,
		Paths: opthttp.SolverPaths{
			Linear:    cfg.Solver.LinearPath,
			Transport: cfg.Solver.TransportPath,
			Network:   cfg.Solver.NetworkPath,
		},
		Timeout:   cfg.Solver.Timeout,
		RateLimit: cfg.Solver.RateLimit,
		Burst:     cfg.Solver.RateBurst,
	})
	dashboard := service.NewDashboardService(store, solver, logger, service.Options{
		SolveTimeout: cfg.Solver.Timeout,
	})

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:         logger,
		Store:          pinger,
		Dashboard:      dashboard,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("solver", cfg.Solver.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
