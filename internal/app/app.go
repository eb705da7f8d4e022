package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shubinsengi1/ubertest/config"
	httpserver "github.com/shubinsengi1/ubertest/internal/adapter/http/server"
	"github.com/shubinsengi1/ubertest/internal/adapter/postgres"
	"github.com/shubinsengi1/ubertest/internal/adapter/rabbit"
	wsadapter "github.com/shubinsengi1/ubertest/internal/adapter/ws"
	"github.com/shubinsengi1/ubertest/internal/service/admin"
	"github.com/shubinsengi1/ubertest/internal/service/auth"
	"github.com/shubinsengi1/ubertest/internal/service/dispatch"
	"github.com/shubinsengi1/ubertest/internal/service/ride"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	postgresclient "github.com/shubinsengi1/ubertest/pkg/postgres"
	rabbitclient "github.com/shubinsengi1/ubertest/pkg/rabbit"
	"github.com/shubinsengi1/ubertest/pkg/trm"
	"github.com/shubinsengi1/ubertest/pkg/wshub"
)

type App struct {
	postgresDB *postgresclient.PostgreDB
	rabbitMQ   *rabbitclient.RabbitMQ
	hub        *wshub.Hub
	broker     *rabbit.RideBroker
	notifier   *wsadapter.Notifier
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

// NewApplication wires repositories, services and transports together.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	mq, err := rabbitclient.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		return nil, err
	}

	broker, err := rabbit.NewRideBroker(mq, log)
	if err != nil {
		return nil, err
	}

	hub := wshub.NewHub(log)
	notifier := wsadapter.NewNotifier(hub, log)

	txManager := trm.New(db.Pool)

	// repositories
	rideRepo := postgres.NewRideRepo(db.Pool)
	userRepo := postgres.NewUserRepo(db.Pool)
	eventRepo := postgres.NewRideEventRepo(db.Pool)
	refreshRepo := postgres.NewRefreshTokenRepo(db.Pool)
	adminRepo := postgres.NewAdminRepo(db.Pool)

	// services
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, userRepo, refreshRepo, txManager, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, log)
	authSvc := auth.NewAuthService(userRepo, tokenSvc, log)
	rideSvc := ride.NewRideService(rideRepo, userRepo, eventRepo, notifier, broker, log, txManager)
	dispatchSvc := dispatch.NewDispatchService(rideRepo, userRepo, eventRepo, notifier, log, txManager)
	adminSvc := admin.NewAdminService(adminRepo, log)

	server, err := httpserver.New(cfg, httpserver.Services{
		Auth:     authSvc,
		Identity: authSvc,
		Ride:     rideSvc,
		Dispatch: dispatchSvc,
		Admin:    adminSvc,
	}, hub, log)
	if err != nil {
		return nil, err
	}

	return &App{
		postgresDB: db,
		rabbitMQ:   mq,
		hub:        hub,
		broker:     broker,
		notifier:   notifier,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	// New ride requests published on the bus are fanned out to every
	// connected driver.
	if err := a.broker.ConsumeRideRequests(ctx, a.notifier.BroadcastRideRequest); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	a.hub.Close()

	if err := a.rabbitMQ.Close(ctx); err != nil {
		a.log.Error(ctx, "failed to close RabbitMQ connection", err)
	}

	a.postgresDB.Pool.Close()
}
