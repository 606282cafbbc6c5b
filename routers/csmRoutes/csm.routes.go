package csmRoutes

import (
	csmControllers "sinfony/controllers/csm"
	"sinfony/middleware"
	"sinfony/models"
	csmValidators "sinfony/validators/csm"
	trainingValidators "sinfony/validators/training"

	"github.com/gofiber/fiber/v2"
)

func SetupCsmRoutes(app *fiber.App) {
	csmOnly := middleware.RequireRoles(models.RoleCSM, models.RoleSuperAdmin)
	csmGroup := app.Group("/csm", middleware.JWTMiddleware, csmOnly)

	// Tenants
	csmGroup.Post("/organizations", csmValidators.CreateOrganization(), csmControllers.CreateOrganization)
	csmGroup.Get("/organizations", csmControllers.ListOrganizations)

	// Content management
	csmGroup.Post("/modules", csmValidators.CreateModule(), csmControllers.CreateModule)
	csmGroup.Patch("/modules/:id/status", trainingValidators.ModuleID(), csmControllers.UpdateModuleStatus)
	csmGroup.Delete("/modules/:id", trainingValidators.ModuleID(), csmControllers.DeleteModule)
	csmGroup.Post("/modules/:id/cover", trainingValidators.ModuleID(), csmControllers.UploadCover)

	// Platform oversight
	csmGroup.Get("/dashboard", csmControllers.Dashboard)
	csmGroup.Post("/broadcast", csmValidators.Broadcast(), csmControllers.Broadcast)
}
