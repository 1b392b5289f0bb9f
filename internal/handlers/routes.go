package handlers

import (
	"feeengine/internal/middleware"
	"feeengine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Router holds everything SetupRoutes mounts.
type Router struct {
	Fees          *FeeHandler
	FeeStructures *FeeStructureHandler
	Health        *HealthHandler
	Auth          *middleware.AuthMiddleware
	Metrics       fiber.Handler
}

// SetupRoutes configures the application routes. Reads need fees:read,
// mutations need fees:write and assignment needs merchant:assign-fee-structure.
func SetupRoutes(app *fiber.App, r Router) {
	app.Get("/health", r.Health.HealthCheck)
	if r.Metrics != nil {
		app.Get("/metrics", r.Metrics)
	}

	api := app.Group("/api", r.Auth.Handler)
	read := middleware.HasPermission(models.PermissionFeesRead)
	write := middleware.HasPermission(models.PermissionFeesWrite)

	api.Post("/fees/calculate", read, r.Fees.Calculate)

	structures := api.Group("/fee-structures")
	structures.Get("/", read, r.FeeStructures.List)
	structures.Get("/:id", read, r.FeeStructures.Get)
	structures.Post("/", write, r.FeeStructures.Create)
	structures.Put("/:id", write, r.FeeStructures.Update)
	structures.Delete("/:id", write, r.FeeStructures.Delete)
	structures.Get("/:id/tiers", read, r.FeeStructures.ListTiers)
	structures.Post("/:id/tiers", write, r.FeeStructures.CreateTier)

	tiers := api.Group("/volume-tiers")
	tiers.Put("/:id", write, r.FeeStructures.UpdateTier)
	tiers.Delete("/:id", write, r.FeeStructures.DeleteTier)

	api.Put("/merchants/:merchantId/fee-structure",
		middleware.HasPermission(models.PermissionMerchantAssign), r.FeeStructures.Assign)
}
