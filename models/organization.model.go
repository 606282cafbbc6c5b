package models

import "gorm.io/gorm"

// Organization is the tenant unit. New signups are bound to an organization
// by matching the signer's email domain, so Domain must be unique.
type Organization struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Domain       string `gorm:"unique;not null"`
	PrimaryColor string `gorm:"default:''"`
	LogoURL      string `gorm:"default:''"`
	IsDeleted    bool   `gorm:"default:false"`
}
