package utils

import (
	"fmt"
	"log"
	"time"

	"sinfony/database"
	"sinfony/models"
	"sinfony/models/training"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

const inactivityThresholdDays = 7

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[REMINDER-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// processInactivityReminders emails active employees whose last login is
// older than the threshold.
func processInactivityReminders() {
	db := database.Database.Db
	cutoff := now.BeginningOfDay().AddDate(0, 0, -inactivityThresholdDays)

	var users []models.User
	if err := db.Where(
		"role = ? AND status = ? AND is_deleted = ? AND last_login IS NOT NULL AND last_login < ?",
		models.RoleEmployee, models.StatusActive, false, cutoff,
	).Find(&users).Error; err != nil {
		logScheduler("Error fetching inactive users: " + err.Error())
		return
	}

	for _, user := range users {
		days := int(time.Since(user.LastLogin).Hours() / 24)
		if err := SendInactivityReminderEmail(user.Email, user.Name, days); err != nil {
			logScheduler("Error sending reminder to " + user.Email + ": " + err.Error())
		}
	}

	if len(users) > 0 {
		logScheduler(fmt.Sprintf("Sent %d inactivity reminders", len(users)))
	}
}

// processWeeklyDigest posts a completion summary notification to every
// organization's coordinators.
func processWeeklyDigest() {
	db := database.Database.Db
	weekStart := now.BeginningOfWeek()

	var orgs []models.Organization
	if err := db.Where("is_deleted = ?", false).Find(&orgs).Error; err != nil {
		logScheduler("Error fetching organizations: " + err.Error())
		return
	}

	for _, org := range orgs {
		var completions int64
		db.Model(&training.ModuleProgress{}).
			Joins("JOIN users ON users.id = module_progresses.user_id").
			Where("users.organization_id = ? AND module_progresses.status = ? AND module_progresses.completed_at >= ?",
				org.ID, training.ProgressCompleted, weekStart).
			Count(&completions)

		if completions == 0 {
			continue
		}

		notification := models.Notification{
			SenderID:       0, // system
			OrganizationID: org.ID,
			Message:        "Weekly digest: " + org.Name + " recorded new module completions this week.",
		}
		if err := db.Create(&notification).Error; err != nil {
			logScheduler("Error creating digest notification: " + err.Error())
		}
	}
}

// StartReminderScheduler wires the cron jobs: daily inactivity reminders and
// a Monday-morning coordinator digest.
func StartReminderScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("0 9 * * *", processInactivityReminders); err != nil {
		log.Fatalf("Failed to schedule inactivity reminders: %v", err)
	}
	if _, err := c.AddFunc("0 8 * * 1", processWeeklyDigest); err != nil {
		log.Fatalf("Failed to schedule weekly digest: %v", err)
	}

	c.Start()
	logScheduler("Scheduler started")
	return c
}
