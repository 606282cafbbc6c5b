package coordinatorController

import (
	"errors"
	"fmt"
	"time"

	"sinfony/database"
	"sinfony/middleware"
	"sinfony/models"
	"sinfony/models/training"
	"sinfony/services/access"
	"sinfony/utils"

	"github.com/gofiber/fiber/v2"
)

func accessErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, access.ErrForbidden):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to perform this action!", nil)
	case errors.Is(err, access.ErrInvalidRole), errors.Is(err, access.ErrInvalidStatus):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
}

// Members lists the organization members visible to the coordinator.
func Members(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	members, err := access.VisibleMembers(database.Database.Db, actor)
	if err != nil {
		return accessErrorResponse(c, err)
	}

	for i := range members {
		members[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Members fetched successfully!", fiber.Map{
		"members": members,
		"total":   len(members),
	})
}

func loadMember(c *fiber.Ctx) (*models.User, error) {
	memberID := c.Locals("memberID").(int)
	var member models.User
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", memberID, false).First(&member).Error
	return &member, err
}

// UpdateMemberRole promotes an employee to coordinator within the actor's
// organization. This is the only role transition the platform allows.
func UpdateMemberRole(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	member, err := loadMember(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Member not found!", nil)
	}

	newRole := c.Locals("validatedRole").(string)

	if err := access.CanMutateRole(actor, member, newRole); err != nil {
		return accessErrorResponse(c, err)
	}

	member.Role = newRole
	if err := database.Database.Db.Save(member).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update member role!", nil)
	}

	member.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Member promoted successfully!", member)
}

// UpdateMemberStatus toggles a member between active and inactive.
// Deactivation preserves all history; nothing is deleted.
func UpdateMemberStatus(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	member, err := loadMember(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Member not found!", nil)
	}

	newStatus := c.Locals("validatedStatus").(string)

	if err := access.CanMutateStatus(actor, member, newStatus); err != nil {
		return accessErrorResponse(c, err)
	}

	member.Status = newStatus
	if err := database.Database.Db.Save(member).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update member status!", nil)
	}

	member.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Member status updated successfully!", member)
}

// ListFeedback returns the organization's feedback enriched with user names
// and module titles.
func ListFeedback(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok || actor.OrganizationID == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var feedbacks []models.Feedback
	if err := db.Where("organization_id = ? AND is_deleted = ?", *actor.OrganizationID, false).
		Order("created_at desc").Find(&feedbacks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feedback!", nil)
	}

	type feedbackView struct {
		models.Feedback
		UserName    string `json:"user_name"`
		ModuleTitle string `json:"module_title"`
	}

	result := make([]feedbackView, len(feedbacks))
	for i, feedback := range feedbacks {
		var user models.User
		db.Select("name").Where("id = ?", feedback.UserID).First(&user)
		var module training.TrainingModule
		db.Select("title").Where("id = ?", feedback.ModuleID).First(&module)
		result[i] = feedbackView{Feedback: feedback, UserName: user.Name, ModuleTitle: module.Title}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback fetched successfully!", result)
}

// Dashboard aggregates completion and satisfaction numbers for the
// coordinator's organization.
func Dashboard(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok || actor.OrganizationID == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db
	orgID := *actor.OrganizationID

	var totalMembers, activeMembers int64
	db.Model(&models.User{}).Where("organization_id = ? AND is_deleted = ?", orgID, false).Count(&totalMembers)
	db.Model(&models.User{}).Where("organization_id = ? AND status = ? AND is_deleted = ?", orgID, models.StatusActive, false).Count(&activeMembers)

	var completions int64
	db.Model(&training.ModuleProgress{}).
		Joins("JOIN users ON users.id = module_progresses.user_id").
		Where("users.organization_id = ? AND module_progresses.status = ?", orgID, training.ProgressCompleted).
		Count(&completions)

	var inProgress int64
	db.Model(&training.ModuleProgress{}).
		Joins("JOIN users ON users.id = module_progresses.user_id").
		Where("users.organization_id = ? AND module_progresses.status = ?", orgID, training.ProgressInProgress).
		Count(&inProgress)

	type satisfactionRow struct {
		AvgNPS  float64
		AvgCSAT float64
		Total   int64
	}
	var satisfaction satisfactionRow
	db.Model(&models.Feedback{}).
		Select("COALESCE(AVG(nps), 0) as avg_nps, COALESCE(AVG(csat), 0) as avg_csat, COUNT(*) as total").
		Where("organization_id = ? AND is_deleted = ?", orgID, false).
		Scan(&satisfaction)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"total_members":        totalMembers,
		"active_members":       activeMembers,
		"completed_modules":    completions,
		"in_progress_modules":  inProgress,
		"average_nps":          satisfaction.AvgNPS,
		"average_csat":         satisfaction.AvgCSAT,
		"feedback_submissions": satisfaction.Total,
	})
}

// ExportMembers streams an xlsx report of the organization's members and
// their completion counts.
func ExportMembers(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	members, err := access.VisibleMembers(database.Database.Db, actor)
	if err != nil {
		return accessErrorResponse(c, err)
	}

	headers := []string{"Name", "Email", "Profession", "Sector", "Points", "Completed Modules", "Last Login"}
	rows := make([][]interface{}, len(members))
	for i, member := range members {
		var completed int64
		database.Database.Db.Model(&training.ModuleProgress{}).
			Where("user_id = ? AND status = ?", member.ID, training.ProgressCompleted).Count(&completed)

		lastLogin := ""
		if !member.LastLogin.IsZero() {
			lastLogin = member.LastLogin.Format("2006-01-02 15:04")
		}
		rows[i] = []interface{}{member.Name, member.Email, member.Profession, member.Sector, member.Points, completed, lastLogin}
	}

	data, err := utils.ExportToExcel("Members", headers, rows)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate export!", nil)
	}

	fileName := fmt.Sprintf("members-%s.xlsx", time.Now().Format("20060102"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+fileName)
	return c.Send(data)
}

// SendNotification posts a notification to the coordinator's organization,
// optionally narrowed to a single member.
func SendNotification(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok || actor.OrganizationID == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedNotify").(*struct {
		Message     string `json:"message"`
		RecipientID *uint  `json:"recipient_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	notification := models.Notification{
		SenderID:       actor.ID,
		OrganizationID: *actor.OrganizationID,
		RecipientID:    reqData.RecipientID,
		Message:        reqData.Message,
	}

	if err := database.Database.Db.Create(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Notification sent!", notification)
}
