package training

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// ModuleProgress is the per-(user, module) completion record. It is created
// lazily on the first topic completion. Status must be COMPLETED exactly when
// the user's topic_completions rows cover every topic of the module.
type ModuleProgress struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"index;not null;uniqueIndex:idx_progress_user_module"`
	ModuleID     uint       `json:"module_id" gorm:"index;not null;uniqueIndex:idx_progress_user_module"`
	Status       string     `json:"status" gorm:"default:'IN_PROGRESS'"`
	Score        *int       `json:"score"` // last quiz score, informational
	AttemptCount int        `json:"attempt_count" gorm:"default:0"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastAccessed time.Time  `json:"last_accessed"`
}

// TopicCompletion is the completed-topic set, one row per (user, topic).
// Inserts are additive and commutative so concurrent completions of two
// different topics can never drop one another.
type TopicCompletion struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_completion_user_topic"`
	ModuleID uint `json:"module_id" gorm:"index;not null"`
	TopicID  uint `json:"topic_id" gorm:"index;not null;uniqueIndex:idx_completion_user_topic"`
}
