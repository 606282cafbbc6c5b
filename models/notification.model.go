package models

import "gorm.io/gorm"

// Notification is sent by a coordinator to their organization or broadcast by
// a CSM to every organization. RecipientID narrows delivery to one user.
type Notification struct {
	gorm.Model
	SenderID       uint   `json:"sender_id" gorm:"index;not null"`
	OrganizationID uint   `json:"organization_id" gorm:"index;not null"`
	RecipientID    *uint  `json:"recipient_id" gorm:"index"`
	Message        string `json:"message" gorm:"type:text;not null"`
	IsDeleted      bool   `gorm:"default:false"`
}

// NotificationState tracks per-user read/deleted flags so one notification
// row can fan out to a whole organization.
type NotificationState struct {
	gorm.Model
	NotificationID uint `json:"notification_id" gorm:"index;not null;uniqueIndex:idx_notif_user"`
	UserID         uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_notif_user"`
	Read           bool `json:"read" gorm:"default:false"`
	Deleted        bool `json:"deleted" gorm:"default:false"`
}
