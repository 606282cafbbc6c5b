package trainingValidator

import (
	"strconv"
	"strings"

	"sinfony/middleware"

	"github.com/gofiber/fiber/v2"
)

func paramID(c *fiber.Ctx, name string) (int, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ModuleID validates the :id route parameter.
func ModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
		}
		c.Locals("moduleID", id)
		return c.Next()
	}
}

// TopicParams validates the :id and :topicId route parameters.
func TopicParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
		}
		topicID, ok := paramID(c, "topicId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid topic ID!", nil)
		}
		c.Locals("moduleID", moduleID)
		c.Locals("topicID", topicID)
		return c.Next()
	}
}

// QuizSubmit validates a quiz submission body: one selected option index per
// question, in question order.
func QuizSubmit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
		}
		topicID, ok := paramID(c, "topicId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid topic ID!", nil)
		}

		reqData := new(struct {
			Answers []int `json:"answers"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(reqData.Answers) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please answer the quiz questions!", nil)
		}
		for _, answer := range reqData.Answers {
			if answer < 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid answer selection!", nil)
			}
		}

		c.Locals("moduleID", moduleID)
		c.Locals("topicID", topicID)
		c.Locals("validatedQuizAnswers", reqData.Answers)
		return c.Next()
	}
}

// Feedback validates the feedback body: NPS 0-10, CSAT 1-5, optional comment.
func Feedback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
		}

		reqData := new(struct {
			NPS     *int   `json:"nps"`
			CSAT    *int   `json:"csat"`
			Comment string `json:"comment"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.NPS == nil || *reqData.NPS < 0 || *reqData.NPS > 10 {
			errors["nps"] = "NPS score must be between 0 and 10!"
		}
		if reqData.CSAT == nil || *reqData.CSAT < 1 || *reqData.CSAT > 5 {
			errors["csat"] = "CSAT score must be between 1 and 5!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("moduleID", moduleID)
		c.Locals("validatedFeedback", reqData)
		return c.Next()
	}
}

// UpdateProfile validates the employee profile payload.
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Profession string `json:"profession"`
			Sector     string `json:"sector"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Profession) == "" {
			errors["profession"] = "Profession is required!"
		}
		if strings.TrimSpace(reqData.Sector) == "" {
			errors["sector"] = "Sector is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
