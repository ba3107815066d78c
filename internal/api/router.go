// Package api wires the HTTP surface: router, handlers, middleware,
// request parsing, and response helpers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fundwatch/fund-monitor-backend/internal/api/handlers"
	custommiddleware "github.com/fundwatch/fund-monitor-backend/internal/api/middleware"
	"github.com/fundwatch/fund-monitor-backend/internal/config"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	fundService *service.FundService,
	linkService *service.LinkService,
	ruleService *service.RuleService,
	alertService *service.AlertService,
	notificationService *service.NotificationService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.Identity)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/fund", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(fundService)
			r.Get("/", fundHandler.List)
			r.Get("/{code}", fundHandler.Detail)
		})

		r.Route("/favorite", func(r chi.Router) {
			favoriteHandler := handlers.NewLinkHandler(linkService, model.LinkFavorite)
			r.Get("/", favoriteHandler.List)
			r.Post("/{code}", favoriteHandler.Add)
			r.Delete("/{code}", favoriteHandler.Remove)
		})

		r.Route("/monitor", func(r chi.Router) {
			monitorHandler := handlers.NewLinkHandler(linkService, model.LinkMonitor)
			r.Get("/", monitorHandler.List)
			r.Post("/{code}", monitorHandler.Add)
			r.Delete("/{code}", monitorHandler.Remove)
		})

		r.Route("/rule", func(r chi.Router) {
			ruleHandler := handlers.NewRuleHandler(ruleService, alertService)
			r.Get("/", ruleHandler.List)
			r.Post("/", ruleHandler.Save)
			r.Delete("/{id}", ruleHandler.Delete)
			r.Post("/{id}/push", ruleHandler.Push)
		})

		r.Route("/notification", func(r chi.Router) {
			notificationHandler := handlers.NewNotificationHandler(notificationService)
			r.Get("/", notificationHandler.Get)
			r.Put("/", notificationHandler.Save)
			r.Get("/log", notificationHandler.Log)
		})
	})

	return r
}
