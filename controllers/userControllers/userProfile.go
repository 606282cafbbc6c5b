package userController

import (
	"sinfony/database"
	"sinfony/middleware"
	"sinfony/models"

	"github.com/gofiber/fiber/v2"
)

// Gamification levels are a derived, display-only classification. Points are
// the stored fact; level names never feed back into stored state.
func levelForPoints(points uint) string {
	switch {
	case points >= 1000:
		return "Especialista"
	case points >= 500:
		return "Avançado"
	case points >= 200:
		return "Intermediário"
	default:
		return "Iniciante"
	}
}

// Me returns the authenticated user's profile.
func Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	user.Password = ""

	var org *models.Organization
	if user.OrganizationID != nil {
		var o models.Organization
		if err := database.Database.Db.First(&o, *user.OrganizationID).Error; err == nil {
			org = &o
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user":         user,
		"organization": org,
	})
}

// UpdateProfile records the employee's profession and sector and flips the
// profile-completed flag.
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Profession string `json:"profession"`
		Sector     string `json:"sector"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	user.Profession = reqData.Profession
	user.Sector = reqData.Sector
	user.ProfileCompleted = true

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// Gamification returns points, badges and the derived level.
func Gamification(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Gamification state fetched successfully!", fiber.Map{
		"points": user.Points,
		"badges": user.Badges,
		"level":  levelForPoints(user.Points),
	})
}
