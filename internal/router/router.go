package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/riodino14/edupulse-backend/internal/config"
	"github.com/riodino14/edupulse-backend/internal/handler"
	"github.com/riodino14/edupulse-backend/internal/middleware"
	"github.com/riodino14/edupulse-backend/internal/observability"
	"github.com/riodino14/edupulse-backend/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DatasetService          service.DatasetService
	AuthHandler             *handler.AuthHandler
	StudentDashboardHandler *handler.StudentDashboardHandler
	RecommendationHandler   *handler.RecommendationHandler
	ChatHandler             *handler.ChatHandler
	AdminAnalyticsHandler   *handler.AdminAnalyticsHandler
	DatasetHandler          *handler.DatasetHandler
	SeedHandler             *handler.SeedHandler
	JWTMiddleware           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	v1 := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	v1.Get("/health", handler.HealthCheck(cfg, deps.DatasetService))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterPublic(app)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group("/api", jwtMiddleware)

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}
	if deps.StudentDashboardHandler != nil {
		deps.StudentDashboardHandler.Register(api.Group("/student"))
	}
	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.Register(api.Group("/recommendation"))
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.Register(api.Group("/chat"))
	}

	// Administrator routes
	admin := api.Group("/admin", middleware.RequireRole(middleware.AuthRoleAdmin))
	if deps.AdminAnalyticsHandler != nil {
		deps.AdminAnalyticsHandler.Register(admin)
	}
	if deps.DatasetHandler != nil {
		deps.DatasetHandler.Register(admin.Group("/dataset"))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(admin.Group("/seed"))
	}
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterAdmin(admin)
	}
}
