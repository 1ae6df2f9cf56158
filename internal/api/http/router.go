package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haeseoky/member-service/internal/api/http/handlers"
	"github.com/haeseoky/member-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Members      *handlers.MembersHandler
	TokenManager *auth.TokenManager
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	members := app.Group("/members")
	members.Post("", cfg.Members.Create)
	members.Get("", cfg.Members.List)
	members.Get("/active", cfg.Members.ListActive)
	members.Get("/:id", cfg.Members.Get)
	members.Put("/:id", cfg.Members.Update)
	members.Patch("/:id/status", cfg.Members.ChangeStatus)
	members.Delete("/:id", cfg.Members.Delete)

	members.Delete("/:id/purge", auth.RequireAdmin(cfg.TokenManager), cfg.Members.Purge)
}
