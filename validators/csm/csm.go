package csmValidator

import (
	"strconv"
	"strings"

	"sinfony/middleware"
	"sinfony/models/training"

	"github.com/gofiber/fiber/v2"
)

// CreateOrganization validates a new tenant payload.
func CreateOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name         string `json:"name"`
			Domain       string `json:"domain"`
			PrimaryColor string `json:"primary_color"`
			LogoURL      string `json:"logo_url"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}
		domain := strings.ToLower(strings.TrimSpace(reqData.Domain))
		if domain == "" || !strings.Contains(domain, ".") || strings.Contains(domain, "@") {
			errors["domain"] = "A valid email domain is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Domain = domain
		c.Locals("validatedOrganization", reqData)
		return c.Next()
	}
}

// TopicPayload is one topic in a module-creation request. Quiz topics carry
// their questions inline; the controller creates the quiz in the same
// transaction.
type TopicPayload struct {
	Title       string            `json:"title"`
	Type        string            `json:"type"`
	TextContent string            `json:"text_content"`
	VideoURL    string            `json:"video_url"`
	ImageURL    string            `json:"image_url"`
	Questions   []QuestionPayload `json:"questions"`
}

type QuestionPayload struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// ModulePayload is the module-creation request body.
type ModulePayload struct {
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	EstimatedDuration int            `json:"estimated_duration"`
	IsActive          bool           `json:"is_active"`
	Topics            []TopicPayload `json:"topics"`
}

// CreateModule validates a module plus its ordered topics and inline quizzes.
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ModulePayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if len(strings.TrimSpace(reqData.Description)) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}
		if len(reqData.Topics) == 0 {
			errors["topics"] = "A module needs at least one topic!"
		}

		for i, topic := range reqData.Topics {
			key := "topics[" + strconv.Itoa(i) + "]"
			if strings.TrimSpace(topic.Title) == "" {
				errors[key] = "Topic title is required!"
				continue
			}
			if !training.ValidTopicType(topic.Type) {
				errors[key] = "Topic type must be VIDEO, TEXT, IMAGE or QUIZ!"
				continue
			}
			switch topic.Type {
			case training.TopicVideo:
				if strings.TrimSpace(topic.VideoURL) == "" {
					errors[key] = "Video topics need a video URL!"
				}
			case training.TopicText:
				if strings.TrimSpace(topic.TextContent) == "" {
					errors[key] = "Text topics need text content!"
				}
			case training.TopicImage:
				if strings.TrimSpace(topic.ImageURL) == "" {
					errors[key] = "Image topics need an image URL!"
				}
			case training.TopicQuiz:
				if len(topic.Questions) == 0 {
					errors[key] = "Quiz topics need at least one question!"
					break
				}
				for _, q := range topic.Questions {
					if len(q.Options) < 2 || q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
						errors[key] = "Each question needs at least two options and a valid correct index!"
						break
					}
				}
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// Broadcast validates a platform-wide notification payload.
func Broadcast() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Message string `json:"message"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if strings.TrimSpace(reqData.Message) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Message is required!", nil)
		}

		c.Locals("validatedBroadcast", reqData.Message)
		return c.Next()
	}
}
