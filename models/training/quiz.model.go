package training

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is read-only from the learner's perspective; it carries no progress
// state of its own.
type Quiz struct {
	gorm.Model
	ModuleID  uint   `json:"module_id" gorm:"index"`
	Title     string `json:"title"`
	IsDeleted bool   `gorm:"default:false"`
}

// Question belongs to a quiz. CorrectIndex points into Options.
type Question struct {
	gorm.Model
	QuizID       uint                        `json:"quiz_id" gorm:"index;not null"`
	QuestionText string                      `json:"question_text" gorm:"type:text"`
	Options      datatypes.JSONSlice[string] `json:"options"`
	CorrectIndex int                         `json:"-" gorm:"default:0"`
	OrderIndex   int                         `json:"order_index" gorm:"default:0"`
	IsDeleted    bool                        `gorm:"default:false"`
}

// QuizAttempt records one graded submission.
type QuizAttempt struct {
	gorm.Model
	UserID        uint `json:"user_id" gorm:"index;not null"`
	QuizID        uint `json:"quiz_id" gorm:"index;not null"`
	TopicID       uint `json:"topic_id" gorm:"index;not null"`
	Score         int  `json:"score"`     // count of correctly answered questions
	MaxScore      int  `json:"max_score"` // question count at submission time
	AttemptNumber int  `json:"attempt_number" gorm:"default:1"`
	IsDeleted     bool `gorm:"default:false"`
}
