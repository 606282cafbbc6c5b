package trainingController

import (
	"errors"
	"log"

	"sinfony/database"
	"sinfony/middleware"
	"sinfony/models/training"
	"sinfony/services/progress"

	"github.com/gofiber/fiber/v2"
)

func trackerErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrModuleNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	case errors.Is(err, progress.ErrInvalidTopicReference):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Topic does not belong to this module!", nil)
	case errors.Is(err, progress.ErrNotQuizTopic):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Topic is not a quiz!", nil)
	case errors.Is(err, progress.ErrScoreOutOfRange), errors.Is(err, progress.ErrAnswerCount):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz submission!", nil)
	default:
		log.Printf("Progress tracker error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Storage unavailable, please try again!", nil)
	}
}

// MarkTopicComplete records a topic completion for the learner.
func MarkTopicComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)
	topicID := c.Locals("topicID").(int)

	tracker := progress.NewTracker(database.Database.Db)
	result, err := tracker.CompleteTopic(userID, uint(moduleID), uint(topicID))
	if err != nil {
		return trackerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic marked as completed!", result)
}

// SubmitQuiz grades a quiz submission, completes the quiz topic, persists
// the score and awards gamification points.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)
	topicID := c.Locals("topicID").(int)
	answers, ok := c.Locals("validatedQuizAnswers").([]int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var topic training.Topic
	if err := db.Where("id = ? AND module_id = ? AND is_deleted = ?", topicID, moduleID, false).First(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
	}
	if topic.Type != training.TopicQuiz || topic.QuizID == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Topic is not a quiz!", nil)
	}

	var questions []training.Question
	if err := db.Where("quiz_id = ? AND is_deleted = ?", *topic.QuizID, false).
		Order("order_index asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	score, err := progress.GradeQuiz(questions, answers)
	if err != nil {
		return trackerErrorResponse(c, err)
	}

	tracker := progress.NewTracker(db)
	result, err := tracker.CompleteQuiz(userID, uint(moduleID), uint(topicID), score)
	if err != nil {
		return trackerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"score":     score,
		"max_score": len(questions),
		"result":    result,
	})
}

// GetProgress returns the caller's derived progress snapshot for a module.
func GetProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	tracker := progress.NewTracker(database.Database.Db)
	snapshot, err := tracker.Get(userID, uint(moduleID))
	if err != nil {
		return trackerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", snapshot)
}

// ListProgress returns all of the caller's progress records.
func ListProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	tracker := progress.NewTracker(database.Database.Db)
	records, err := tracker.All(userID)
	if err != nil {
		return trackerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", records)
}

// ResetProgress recreates an empty progress record for the module.
func ResetProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	tracker := progress.NewTracker(database.Database.Db)
	if err := tracker.Reset(userID, uint(moduleID)); err != nil {
		return trackerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module progress reset.", nil)
}
