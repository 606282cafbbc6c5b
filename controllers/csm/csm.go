package csmController

import (
	"log"
	"path/filepath"
	"strings"

	"sinfony/config"
	"sinfony/database"
	"sinfony/middleware"
	"sinfony/models"
	"sinfony/models/training"
	trainingController "sinfony/controllers/training"
	csmValidator "sinfony/validators/csm"
	"sinfony/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateOrganization provisions a new tenant. Domains are unique across the
// platform because signup resolves the organization from the email domain.
func CreateOrganization(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOrganization").(*struct {
		Name         string `json:"name"`
		Domain       string `json:"domain"`
		PrimaryColor string `json:"primary_color"`
		LogoURL      string `json:"logo_url"`
	})

	var existing models.Organization
	if err := database.Database.Db.Where("domain = ? AND is_deleted = ?", reqData.Domain, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An organization with this domain already exists!", nil)
	}

	organization := models.Organization{
		Name:         reqData.Name,
		Domain:       reqData.Domain,
		PrimaryColor: reqData.PrimaryColor,
		LogoURL:      reqData.LogoURL,
	}

	if err := database.Database.Db.Create(&organization).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create organization!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Organization created successfully!", organization)
}

// ListOrganizations returns all tenants with their member counts.
func ListOrganizations(c *fiber.Ctx) error {
	db := database.Database.Db

	var organizations []models.Organization
	if err := db.Where("is_deleted = ?", false).Order("name asc").Find(&organizations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch organizations!", nil)
	}

	type organizationView struct {
		models.Organization
		MemberCount int64 `json:"member_count"`
	}

	result := make([]organizationView, len(organizations))
	for i, org := range organizations {
		var count int64
		db.Model(&models.User{}).Where("organization_id = ? AND is_deleted = ?", org.ID, false).Count(&count)
		result[i] = organizationView{Organization: org, MemberCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organizations fetched successfully!", result)
}

// Dashboard returns platform-wide rollups for customer success.
func Dashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalOrganizations, totalUsers, activeUsers int64
	db.Model(&models.Organization{}).Where("is_deleted = ?", false).Count(&totalOrganizations)
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&models.User{}).Where("status = ? AND is_deleted = ?", models.StatusActive, false).Count(&activeUsers)

	var totalModules, totalCompletions int64
	db.Model(&training.TrainingModule{}).Where("is_deleted = ?", false).Count(&totalModules)
	db.Model(&training.ModuleProgress{}).Where("status = ?", training.ProgressCompleted).Count(&totalCompletions)

	type satisfactionRow struct {
		AvgNPS  float64
		AvgCSAT float64
	}
	var satisfaction satisfactionRow
	db.Model(&models.Feedback{}).
		Select("COALESCE(AVG(nps), 0) as avg_nps, COALESCE(AVG(csat), 0) as avg_csat").
		Where("is_deleted = ?", false).
		Scan(&satisfaction)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"total_organizations": totalOrganizations,
		"total_users":         totalUsers,
		"active_users":        activeUsers,
		"total_modules":       totalModules,
		"total_completions":   totalCompletions,
		"average_nps":         satisfaction.AvgNPS,
		"average_csat":        satisfaction.AvgCSAT,
	})
}

// Broadcast sends a notification to every organization on the platform.
func Broadcast(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	message := c.Locals("validatedBroadcast").(string)
	db := database.Database.Db

	var organizations []models.Organization
	if err := db.Where("is_deleted = ?", false).Find(&organizations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch organizations!", nil)
	}

	notifications := make([]models.Notification, len(organizations))
	for i, org := range organizations {
		notifications[i] = models.Notification{
			SenderID:       userID,
			OrganizationID: org.ID,
			Message:        message,
		}
	}

	if len(notifications) > 0 {
		if err := db.CreateInBatches(notifications, 100).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send broadcast!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Broadcast sent!", fiber.Map{
		"organizations_notified": len(notifications),
	})
}

// CreateModule creates a training module with its ordered topics and inline
// quizzes in one transaction. Topic order follows the request order.
func CreateModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedModule").(*csmValidator.ModulePayload)

	module := training.TrainingModule{
		Title:             strings.TrimSpace(reqData.Title),
		Description:       strings.TrimSpace(reqData.Description),
		Category:          reqData.Category,
		EstimatedDuration: reqData.EstimatedDuration,
		IsActive:          reqData.IsActive,
		CreatedBy:         userID,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&module).Error; err != nil {
			return err
		}

		for i, topicPayload := range reqData.Topics {
			topic := training.Topic{
				ModuleID:    module.ID,
				Title:       strings.TrimSpace(topicPayload.Title),
				Type:        topicPayload.Type,
				TextContent: topicPayload.TextContent,
				VideoURL:    topicPayload.VideoURL,
				ImageURL:    topicPayload.ImageURL,
				OrderIndex:  i + 1,
			}

			if topicPayload.Type == training.TopicQuiz {
				quiz := training.Quiz{ModuleID: module.ID, Title: topic.Title}
				if err := tx.Create(&quiz).Error; err != nil {
					return err
				}

				for j, questionPayload := range topicPayload.Questions {
					question := training.Question{
						QuizID:       quiz.ID,
						QuestionText: questionPayload.QuestionText,
						Options:      questionPayload.Options,
						CorrectIndex: questionPayload.CorrectIndex,
						OrderIndex:   j + 1,
					}
					if err := tx.Create(&question).Error; err != nil {
						return err
					}
				}

				topic.QuizID = &quiz.ID
			}

			if err := tx.Create(&topic).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("Error creating module: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	trainingController.InvalidateCatalogCache()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// UpdateModuleStatus toggles a module's visibility in the catalog.
func UpdateModuleStatus(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	reqData := new(struct {
		IsActive bool `json:"is_active"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var module training.TrainingModule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	module.IsActive = reqData.IsActive
	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	trainingController.InvalidateCatalogCache()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module status updated successfully!", module)
}

// DeleteModule soft-deletes a module and hides it from the catalog. Progress
// and certificates already issued are kept.
func DeleteModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	var module training.TrainingModule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	module.IsDeleted = true
	module.IsActive = false
	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	trainingController.InvalidateCatalogCache()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// UploadCover stores a module cover image and links it to the module.
func UploadCover(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	var module training.TrainingModule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cover image is required!", nil)
	}

	filePath, err := utils.SaveUploadedImage(fileHeader, filepath.Join(config.AppConfig.UploadDir, "covers"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only jpg, jpeg, png and webp images are allowed!", nil)
	}

	coverURL, err := utils.UploadToStorage(filePath)
	if err != nil {
		log.Printf("Error uploading cover: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload cover image!", nil)
	}

	module.CoverImageURL = coverURL
	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	trainingController.InvalidateCatalogCache()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cover image uploaded successfully!", module)
}
