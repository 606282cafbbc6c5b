package trainingRoutes

import (
	trainingControllers "sinfony/controllers/training"
	"sinfony/middleware"
	"sinfony/models"
	trainingValidators "sinfony/validators/training"

	"github.com/gofiber/fiber/v2"
)

// SetupTrainingRoutes wires the learner-facing training surface: catalog,
// topic completion, quizzes, progress, certificates and feedback.
func SetupTrainingRoutes(app *fiber.App) {
	trainingGroup := app.Group("/training", middleware.JWTMiddleware)

	// Catalog
	trainingGroup.Get("/modules", trainingControllers.ListModules)
	trainingGroup.Get("/modules/:id", trainingValidators.ModuleID(), trainingControllers.GetModuleDetails)

	// Progress tracking
	trainingGroup.Post("/modules/:id/topics/:topicId/complete", trainingValidators.TopicParams(), trainingControllers.MarkTopicComplete)
	trainingGroup.Post("/modules/:id/topics/:topicId/quiz/submit", trainingValidators.QuizSubmit(), trainingControllers.SubmitQuiz)
	trainingGroup.Get("/modules/:id/progress", trainingValidators.ModuleID(), trainingControllers.GetProgress)
	trainingGroup.Delete("/modules/:id/progress", trainingValidators.ModuleID(), trainingControllers.ResetProgress)
	trainingGroup.Get("/progress", trainingControllers.ListProgress)

	// Certificates
	trainingGroup.Get("/modules/:id/certificate", trainingValidators.ModuleID(), trainingControllers.DownloadCertificate)
	trainingGroup.Get("/certificates", trainingControllers.ListCertificates)

	// Feedback requires an organization-bound account
	orgMember := middleware.RequireRoles(models.RoleEmployee, models.RoleCoordinator)
	trainingGroup.Post("/modules/:id/feedback", orgMember, trainingValidators.Feedback(), trainingControllers.SubmitFeedback)
}
