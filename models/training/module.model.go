package training

import "gorm.io/gorm"

// TrainingModule is a unit of training content composed of ordered topics.
// Learners only see modules with IsActive = true.
type TrainingModule struct {
	gorm.Model
	Title             string `json:"title"`
	Description       string `json:"description"`
	Category          string `json:"category" gorm:"default:'geral'"` // uti, centro_cirurgico, enfermagem, tecnologia, geral
	EstimatedDuration int    `json:"estimated_duration" gorm:"default:0"` // minutes
	CoverImageURL     string `json:"cover_image_url"`
	IsActive          bool   `json:"is_active" gorm:"default:false"`
	CreatedBy         uint   `json:"created_by"`
	TotalViews        uint   `json:"total_views" gorm:"default:0"`
	TotalCompletions  uint   `json:"total_completions" gorm:"default:0"`
	IsDeleted         bool   `gorm:"default:false"`
}
