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

	"go.uber.org/zap"

	"courierdesk/internal/config"
	"courierdesk/internal/handler"
	"courierdesk/internal/logger"
	"courierdesk/internal/service"
	"courierdesk/internal/store"
	"courierdesk/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	warnDefaultSecret(log, cfg.Actor)

	fx, err := store.LoadFixtures(cfg.FixturesPath)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	st := store.New()
	if err := st.Seed(fx, time.Now()); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	log.Info("store seeded",
		zap.Int("drivers", len(fx.Drivers)),
		zap.Int("orders", len(fx.Orders)),
		zap.Int("cash_collections", len(fx.Collections)),
	)

	// Services
	orderSvc := service.NewOrderService(st, log, cfg.Orders.NumberPrefix)
	driverSvc := service.NewDriverService(st, log)
	cashSvc := service.NewCashService(st, log)
	statsSvc := service.NewStatsService(st, cfg.Stats.Location)

	// Worker
	simulator := worker.NewLocationSimulator(driverSvc, log.Named("simulator"), cfg.Simulator.Interval, cfg.Simulator.MaxStep)

	// Router
	r := handler.NewRouter(handler.Services{
		Orders:  orderSvc,
		Drivers: driverSvc,
		Cash:    cashSvc,
		Stats:   statsSvc,
	}, handler.RouterConfig{
		ActorSecret:    cfg.Actor.Secret,
		DefaultActor:   cfg.Actor.Default,
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		Location:       cfg.Stats.Location,
	}, log)

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go simulator.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Info("starting server", zap.String("addr", cfg.RunAddress), zap.Stringer("config", cfg))

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		log.Info("shutting down...")
	case err := <-serveErr:
		log.Error("server failed", zap.Error(err))
	}

	cancel() // stop simulator
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func warnDefaultSecret(log *zap.Logger, actor config.ActorConfig) {
	if actor.UsesDefaultSecret() {
		log.Warn("actor.secret is the built-in development key; any client can sign tokens for any manager",
			zap.String("env", "COURIER_ACTOR_SECRET"))
	}
}
