package userController

import (
	"sinfony/database"
	"sinfony/middleware"
	"sinfony/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type notificationView struct {
	models.Notification
	Read bool `json:"read"`
}

// ListNotifications returns the organization's notifications for the current
// user, excluding their own sends and per-user deleted ones.
func ListNotifications(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok || user.OrganizationID == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var notifications []models.Notification
	if err := db.Where(
		"organization_id = ? AND is_deleted = ? AND sender_id <> ? AND (recipient_id IS NULL OR recipient_id = ?)",
		*user.OrganizationID, false, user.ID, user.ID,
	).Order("created_at desc").Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	var states []models.NotificationState
	db.Where("user_id = ?", user.ID).Find(&states)

	stateByNotification := make(map[uint]models.NotificationState, len(states))
	for _, state := range states {
		stateByNotification[state.NotificationID] = state
	}

	result := make([]notificationView, 0, len(notifications))
	for _, notification := range notifications {
		state, seen := stateByNotification[notification.ID]
		if seen && state.Deleted {
			continue
		}
		result = append(result, notificationView{
			Notification: notification,
			Read:         seen && state.Read,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", result)
}

func upsertNotificationState(userID, notificationID uint, update map[string]interface{}) error {
	db := database.Database.Db
	state := models.NotificationState{UserID: userID, NotificationID: notificationID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "notification_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&state).Error; err != nil {
		return err
	}
	return db.Model(&models.NotificationState{}).
		Where("user_id = ? AND notification_id = ?", userID, notificationID).
		Updates(update).Error
}

// MarkNotificationRead flips the per-user read flag.
func MarkNotificationRead(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification ID!", nil)
	}

	if err := upsertNotificationState(user.ID, uint(notificationID), map[string]interface{}{"read": true}); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read.", nil)
}

// DeleteNotification hides the notification for this user only.
func DeleteNotification(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification ID!", nil)
	}

	if err := upsertNotificationState(user.ID, uint(notificationID), map[string]interface{}{"deleted": true}); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification removed.", nil)
}
