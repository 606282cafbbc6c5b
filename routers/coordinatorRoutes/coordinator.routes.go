package coordinatorRoutes

import (
	coordinatorControllers "sinfony/controllers/coordinator"
	"sinfony/middleware"
	"sinfony/models"
	coordinatorValidators "sinfony/validators/coordinator"

	"github.com/gofiber/fiber/v2"
)

func SetupCoordinatorRoutes(app *fiber.App) {
	coordinatorOnly := middleware.RequireRoles(models.RoleCoordinator)
	coordinatorGroup := app.Group("/coordinator", middleware.JWTMiddleware, coordinatorOnly)

	coordinatorGroup.Get("/members", coordinatorControllers.Members)
	coordinatorGroup.Patch("/members/:id/role", coordinatorValidators.MemberRole(), coordinatorControllers.UpdateMemberRole)
	coordinatorGroup.Patch("/members/:id/status", coordinatorValidators.MemberStatus(), coordinatorControllers.UpdateMemberStatus)
	coordinatorGroup.Get("/members/export", coordinatorControllers.ExportMembers)
	coordinatorGroup.Get("/feedback", coordinatorControllers.ListFeedback)
	coordinatorGroup.Get("/dashboard", coordinatorControllers.Dashboard)
	coordinatorGroup.Post("/notifications", coordinatorValidators.Notify(), coordinatorControllers.SendNotification)
}
