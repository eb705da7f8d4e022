package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/shubinsengi1/ubertest/docs"
	"github.com/shubinsengi1/ubertest/internal/adapter/http/middleware"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	mux.HandleFunc("/swagger/", httpSwagger.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	setupAuthRoutes(mux, routes)
	setupRideRoutes(mux, routes, m)
	setupDriverRoutes(mux, routes, m)
	setupAdminRoutes(mux, routes, m)

	// WebSocket subscription for ride updates, riders and drivers alike
	mux.Handle("GET /ws", m.RequireRoles(routes.ws.Subscribe, types.RoleRider, types.RoleDriver))
}

func setupAuthRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("POST /auth/register", routes.auth.Register)
	mux.HandleFunc("POST /auth/login", routes.auth.Login)
	mux.HandleFunc("POST /auth/refresh", routes.auth.Refresh)
	mux.HandleFunc("GET /auth/me", routes.auth.Profile)
}

// setupRideRoutes setups the ride lifecycle routes
func setupRideRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /rides", m.RequireRoles(routes.ride.Create, types.RoleRider))                                                     // Request a new ride
	mux.Handle("GET /rides", m.RequireRoles(routes.ride.History, types.RoleRider, types.RoleDriver))                                   // Ride history for the current user
	mux.Handle("GET /rides/{ride_id}", m.RequireRoles(routes.ride.Get, types.RoleRider, types.RoleDriver, types.RoleAdmin))            // Ride details
	mux.Handle("PATCH /rides/{ride_id}/status", m.RequireRoles(routes.ride.UpdateStatus, types.RoleDriver))                            // Advance ride status
	mux.Handle("POST /rides/{ride_id}/cancel", m.RequireRoles(routes.ride.Cancel, types.RoleRider, types.RoleDriver, types.RoleAdmin)) // Cancel a ride
	mux.Handle("POST /rides/{ride_id}/rate", m.RequireRoles(routes.ride.Rate, types.RoleRider, types.RoleDriver))                      // Rate a completed ride
}

// setupDriverRoutes setups the dispatch routes
func setupDriverRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /drivers/rides", m.RequireRoles(routes.driver.Available, types.RoleDriver))                // Nearby ride requests
	mux.Handle("POST /drivers/rides/{ride_id}/accept", m.RequireRoles(routes.driver.Accept, types.RoleDriver)) // Accept a ride request
	mux.Handle("PUT /drivers/availability", m.RequireRoles(routes.driver.Availability, types.RoleDriver))      // Go online/offline
	mux.Handle("PUT /drivers/location", m.RequireRoles(routes.driver.Location, types.RoleDriver))              // Update current position
	mux.Handle("GET /drivers/dashboard", m.RequireRoles(routes.driver.Dashboard, types.RoleDriver))            // Daily summary
	mux.Handle("GET /drivers/earnings", m.RequireRoles(routes.driver.Earnings, types.RoleDriver))              // Earnings breakdown
	mux.Handle("GET /drivers/nearby", m.RequireRoles(routes.driver.Nearby, types.RoleRider))                   // Online drivers near a point
}

// setupAdminRoutes setups routes for platform operators
func setupAdminRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /admin/overview", m.RequireRoles(routes.admin.Overview, types.RoleAdmin))                         // Get system metrics overview
	mux.Handle("GET /admin/rides/active", m.RequireRoles(routes.admin.ActiveRides, types.RoleAdmin))                  // Get list of active rides
	mux.Handle("GET /admin/rides", m.RequireRoles(routes.admin.Rides, types.RoleAdmin))                               // Full ride log
	mux.Handle("GET /admin/analytics", m.RequireRoles(routes.admin.Analytics, types.RoleAdmin))                       // Volume and revenue analytics
	mux.Handle("GET /admin/users", m.RequireRoles(routes.admin.Users, types.RoleAdmin))                               // List registered users
	mux.Handle("PATCH /admin/users/{user_id}/status", m.RequireRoles(routes.admin.ToggleUserStatus, types.RoleAdmin)) // Activate or deactivate an account
}
