package training

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is an issued completion certificate. Eligibility is never
// stored here; it is recomputed from ModuleProgress on every read.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	ModuleID          uint      `json:"module_id" gorm:"index;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	CertificateURL    string    `json:"certificate_url"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}
