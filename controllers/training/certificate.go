package trainingController

import (
	"log"
	"time"

	"sinfony/database"
	"sinfony/middleware"
	"sinfony/models"
	"sinfony/models/training"
	"sinfony/services/progress"
	"sinfony/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DownloadCertificate issues (if needed) and serves the completion
// certificate. Eligibility is recomputed from current progress on every call;
// there is no stored eligibility flag to get stale.
func DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)
	db := database.Database.Db

	tracker := progress.NewTracker(db)
	snapshot, err := tracker.Get(userID, uint(moduleID))
	if err != nil {
		return trackerErrorResponse(c, err)
	}
	if !snapshot.CertificateEligible {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the module before requesting a certificate!", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var module training.TrainingModule
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var organizationName string
	if user.OrganizationID != nil {
		var org models.Organization
		if err := db.First(&org, *user.OrganizationID).Error; err == nil {
			organizationName = org.Name
		}
	}

	var cert training.Certificate
	err = db.Where("user_id = ? AND module_id = ? AND is_deleted = ?", userID, moduleID, false).First(&cert).Error
	if err != nil {
		completionDate := time.Now()
		if snapshot.Progress != nil && snapshot.Progress.CompletedAt != nil {
			completionDate = *snapshot.Progress.CompletedAt
		}

		cert = training.Certificate{
			UserID:            userID,
			ModuleID:          uint(moduleID),
			CertificateNumber: "SINF-" + uuid.NewString(),
			IssuedAt:          time.Now(),
		}

		filePath, renderErr := utils.RenderCertificate(utils.CertificateData{
			UserName:          user.Name,
			ModuleTitle:       module.Title,
			CompletionDate:    completionDate.Format("02/01/2006"),
			OrganizationName:  organizationName,
			CertificateNumber: cert.CertificateNumber,
		})
		if renderErr != nil {
			log.Printf("Error rendering certificate: %v", renderErr)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
		}
		cert.CertificateURL = utils.LocalFileURL(filePath)

		if err := db.Create(&cert).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save certificate!", nil)
		}

		go func(email, name, title, number string) {
			if err := utils.SendCompletionEmail(email, name, title, number); err != nil {
				log.Printf("Error sending completion email: %v", err)
			}
		}(user.Email, user.Name, module.Title, cert.CertificateNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate ready!", cert)
}

// ListCertificates returns the caller's issued certificates with module
// titles attached.
func ListCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var certificates []training.Certificate
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type certificateView struct {
		training.Certificate
		ModuleTitle string `json:"module_title"`
	}

	result := make([]certificateView, len(certificates))
	for i, cert := range certificates {
		var module training.TrainingModule
		db.Where("id = ?", cert.ModuleID).First(&module)
		result[i] = certificateView{Certificate: cert, ModuleTitle: module.Title}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", result)
}
