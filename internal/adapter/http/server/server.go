package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shubinsengi1/ubertest/config"
	"github.com/shubinsengi1/ubertest/internal/adapter/http/handler"
	"github.com/shubinsengi1/ubertest/internal/adapter/http/middleware"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/wshub"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health *handler.Health
	auth   *handler.Auth
	ride   *handler.Ride
	driver *handler.Driver
	admin  *handler.Admin
	ws     *handler.WS
}

type Services struct {
	Auth     handler.AuthService
	Identity middleware.Identity
	Ride     handler.RideService
	Dispatch handler.DispatchService
	Admin    handler.AdminService
}

func New(
	cfg config.Config,
	services Services,
	hub *wshub.Hub,
	log logger.Logger,
) (*API, error) {
	if services.Auth == nil || services.Identity == nil {
		return nil, errors.New("auth service is required")
	}

	addr := fmt.Sprintf(serverIPAddress, cfg.Server.Host, cfg.Server.Port)

	routes := &handlers{
		health: handler.NewHealth(cfg.ServiceName, log),
		auth:   handler.NewAuth(services.Auth, log),
		ride:   handler.NewRide(services.Ride, log),
		driver: handler.NewDriver(services.Dispatch, log),
		admin:  handler.NewAdmin(services.Admin, log),
		ws:     handler.NewWS(hub, log),
	}

	mid := middleware.NewMiddleware(services.Identity, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.withMiddleware(),
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
		WriteTimeout: 0, // websocket connections stay open
	}

	setupRoutes(api.mux, api.routes, api.m)

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(a.m.Logging(a.m.Auth(a.mux)))))
}
