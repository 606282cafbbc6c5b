package userRoutes

import (
	userControllers "sinfony/controllers/userControllers"
	"sinfony/middleware"
	"sinfony/models"
	trainingValidators "sinfony/validators/training"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/me", userControllers.Me)
	userGroup.Put("/profile", trainingValidators.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Get("/gamification", userControllers.Gamification)

	anyMember := middleware.RequireRoles(models.RoleEmployee, models.RoleCoordinator)
	userGroup.Get("/notifications", anyMember, userControllers.ListNotifications)
	userGroup.Patch("/notifications/:id/read", anyMember, userControllers.MarkNotificationRead)
	userGroup.Delete("/notifications/:id", anyMember, userControllers.DeleteNotification)
}
