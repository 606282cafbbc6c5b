package models

import "gorm.io/gorm"

// Feedback is collected once per (user, module) after module completion.
// It is organization-scoped so coordinator dashboards can aggregate it.
type Feedback struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"index;not null;uniqueIndex:idx_feedback_user_module"`
	ModuleID       uint   `json:"module_id" gorm:"index;not null;uniqueIndex:idx_feedback_user_module"`
	OrganizationID uint   `json:"organization_id" gorm:"index;not null"`
	NPS            int    `json:"nps" gorm:"check:nps >= 0 AND nps <= 10"`
	CSAT           int    `json:"csat" gorm:"check:csat >= 1 AND csat <= 5"`
	Comment        string `json:"comment" gorm:"type:text;default:''"`
	IsDeleted      bool   `gorm:"default:false"`
}
