package training

import "gorm.io/gorm"

const (
	TopicVideo = "VIDEO"
	TopicText  = "TEXT"
	TopicImage = "IMAGE"
	TopicQuiz  = "QUIZ"
)

// Topic is a single content unit within a module. OrderIndex is fixed at
// creation and significant: it decides the first topic and display order.
// A QUIZ topic references exactly one Quiz via QuizID.
type Topic struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Type        string `json:"type" gorm:"default:'TEXT'"` // VIDEO, TEXT, IMAGE, QUIZ
	TextContent string `json:"text_content" gorm:"type:text"` // for TEXT type
	VideoURL    string `json:"video_url"`                     // for VIDEO type
	ImageURL    string `json:"image_url"`                     // for IMAGE type
	QuizID      *uint  `json:"quiz_id" gorm:"index"`          // for QUIZ type
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}

// ValidTopicType reports whether t is a known topic type.
func ValidTopicType(t string) bool {
	switch t {
	case TopicVideo, TopicText, TopicImage, TopicQuiz:
		return true
	default:
		return false
	}
}
