package trainingController

import (
	"time"

	"sinfony/database"
	"sinfony/middleware"
	"sinfony/models/training"
	"sinfony/services/progress"
	"sinfony/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// catalogCache holds the active-module listing. Every catalog mutation must
// call InvalidateCatalogCache; expiry alone is only a safety net.
var catalogCache = utils.NewCache[[]training.TrainingModule](5 * time.Minute)

const catalogCacheKey = "modules:active"

// InvalidateCatalogCache drops cached catalog reads after a mutation.
func InvalidateCatalogCache() {
	catalogCache.Clear()
}

// ListModules returns the active training catalog visible to learners.
func ListModules(c *fiber.Ctx) error {
	if modules, ok := catalogCache.Get(catalogCacheKey); ok {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
	}

	var modules []training.TrainingModule
	if err := database.Database.Db.
		Where("is_active = ? AND is_deleted = ?", true, false).
		Order("created_at desc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	catalogCache.Set(catalogCacheKey, modules)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

type questionView struct {
	ID           uint     `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	OrderIndex   int      `json:"order_index"`
}

type topicView struct {
	training.Topic
	Questions []questionView `json:"questions,omitempty"`
}

// GetModuleDetails returns a module with its ordered topics, the caller's
// progress snapshot, and quiz questions stripped of the correct indexes.
// Each read bumps the view counter.
func GetModuleDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module training.TrainingModule
	if err := database.Database.Db.
		Where("id = ? AND is_active = ? AND is_deleted = ?", moduleID, true, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var topics []training.Topic
	if err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index asc").Find(&topics).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch topics!", nil)
	}

	result := make([]topicView, len(topics))
	for i, topic := range topics {
		result[i] = topicView{Topic: topic}

		if topic.Type == training.TopicQuiz && topic.QuizID != nil {
			var questions []training.Question
			database.Database.Db.
				Where("quiz_id = ? AND is_deleted = ?", *topic.QuizID, false).
				Order("order_index asc").Find(&questions)

			views := make([]questionView, len(questions))
			for j, q := range questions {
				views[j] = questionView{
					ID:           q.ID,
					QuestionText: q.QuestionText,
					Options:      q.Options,
					OrderIndex:   q.OrderIndex,
				}
			}
			result[i].Questions = views
		}
	}

	database.Database.Db.Model(&training.TrainingModule{}).Where("id = ?", module.ID).
		UpdateColumn("total_views", gorm.Expr("total_views + 1"))

	tracker := progress.NewTracker(database.Database.Db)
	snapshot, err := tracker.Get(userID, module.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module details fetched successfully!", fiber.Map{
		"module":   module,
		"topics":   result,
		"progress": snapshot,
	})
}
