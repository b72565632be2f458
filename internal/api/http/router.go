package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cove-house/waitlist-service/internal/api/http/handlers"
	"github.com/cove-house/waitlist-service/internal/auth"
	"github.com/cove-house/waitlist-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Waitlist        *handlers.WaitlistHandler
	PainPoints      *handlers.PainPointHandler
	Admin           *handlers.AdminHandler
	Analytics       *handlers.AnalyticsHandler
	AdminMiddleware *auth.AdminMiddleware
	Limiter         *ratelimit.Limiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	waitlist := app.Group("/waitlist")
	waitlist.Post("/demand", cfg.Limiter.Handle, cfg.Waitlist.SubmitDemand)
	waitlist.Post("/supply", cfg.Limiter.Handle, cfg.Waitlist.SubmitSupply)
	waitlist.Post("/demand/approve", cfg.Waitlist.ApproveDemand)
	waitlist.Post("/supply/approve", cfg.Waitlist.ApproveSupply)

	admin := app.Group("/admin")
	admin.Post("/login", cfg.Admin.Login)
	admin.Get("/waitlist", cfg.AdminMiddleware.Handle, cfg.Admin.ListDemand)
	admin.Get("/supply-waitlist", cfg.AdminMiddleware.Handle, cfg.Admin.ListSupply)

	app.Post("/pain-points", cfg.Limiter.Handle, cfg.PainPoints.Submit)
	app.Post("/analytics", cfg.Analytics.Record)
}
