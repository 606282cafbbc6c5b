package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking keeps an audit row per successful login.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	IPAddress string    `gorm:"default:''"`
	Device    string    `gorm:"default:''"`
	Timestamp time.Time `gorm:"not null"`
}
