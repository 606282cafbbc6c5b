package middleware

import (
	"sinfony/database"
	"sinfony/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles returns a middleware that loads the authenticated user and
// checks their role against the allowed set. The role comes from the database
// row, not the token, so a demoted or deactivated account is cut off as soon
// as its row changes. The loaded user is stored in Locals("currentUser").
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		if user.Status == models.StatusInactive {
			return JsonResponse(c, fiber.StatusForbidden, false, "Your account has been deactivated. Contact your coordinator.", nil)
		}

		for _, role := range roles {
			if user.Role == role {
				c.Locals("currentUser", &user)
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}

// CurrentUser returns the user loaded by RequireRoles.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("currentUser").(*models.User)
	return user, ok
}
