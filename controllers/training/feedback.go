package trainingController

import (
	"errors"

	"sinfony/database"
	"sinfony/middleware"
	"sinfony/models"
	"sinfony/services/progress"

	"github.com/gofiber/fiber/v2"
)

// SubmitFeedback stores module feedback. It is accepted exactly once per
// (user, module) and only after the module has been completed. The gate is
// enforced here, not just in the UI.
func SubmitFeedback(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok || user.OrganizationID == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	reqData, ok := c.Locals("validatedFeedback").(*struct {
		NPS     *int   `json:"nps"`
		CSAT    *int   `json:"csat"`
		Comment string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	tracker := progress.NewTracker(database.Database.Db)
	if err := tracker.FeedbackAllowed(user.ID, uint(moduleID)); err != nil {
		switch {
		case errors.Is(err, progress.ErrNotCompleted):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the module before giving feedback!", nil)
		case errors.Is(err, progress.ErrFeedbackExists):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Feedback already submitted for this module!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit feedback!", nil)
		}
	}

	feedback := models.Feedback{
		UserID:         user.ID,
		ModuleID:       uint(moduleID),
		OrganizationID: *user.OrganizationID,
		NPS:            *reqData.NPS,
		CSAT:           *reqData.CSAT,
		Comment:        reqData.Comment,
	}

	if err := database.Database.Db.Create(&feedback).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit feedback!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Feedback submitted. Thank you!", feedback)
}
