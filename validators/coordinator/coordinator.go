package coordinatorValidator

import (
	"strconv"
	"strings"

	"sinfony/middleware"
	"sinfony/models"

	"github.com/gofiber/fiber/v2"
)

// MemberRole validates the promote-member payload.
func MemberRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberIDStr := strings.TrimSpace(c.Params("id"))
		memberID, err := strconv.Atoi(memberIDStr)
		if err != nil || memberID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid member ID!", nil)
		}

		reqData := new(struct {
			Role string `json:"role"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if !models.ValidRole(reqData.Role) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid role!", nil)
		}

		c.Locals("memberID", memberID)
		c.Locals("validatedRole", reqData.Role)
		return c.Next()
	}
}

// MemberStatus validates the status-toggle payload.
func MemberStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberIDStr := strings.TrimSpace(c.Params("id"))
		memberID, err := strconv.Atoi(memberIDStr)
		if err != nil || memberID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid member ID!", nil)
		}

		reqData := new(struct {
			Status string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Status != models.StatusActive && reqData.Status != models.StatusInactive {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be ACTIVE or INACTIVE!", nil)
		}

		c.Locals("memberID", memberID)
		c.Locals("validatedStatus", reqData.Status)
		return c.Next()
	}
}

// Notify validates a coordinator notification payload.
func Notify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Message     string `json:"message"`
			RecipientID *uint  `json:"recipient_id"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if strings.TrimSpace(reqData.Message) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Message is required!", nil)
		}

		c.Locals("validatedNotify", reqData)
		return c.Next()
	}
}
