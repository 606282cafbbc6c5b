package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles form a closed set. Every authorization decision switches over these
// four values exhaustively; adding a role means touching every switch.
const (
	RoleEmployee    = "EMPLOYEE"
	RoleCoordinator = "COORDINATOR"
	RoleCSM         = "CSM"
	RoleSuperAdmin  = "SUPER-ADMIN"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type User struct {
	gorm.Model
	ProfileImage     string `gorm:"default:''"`
	Name             string `gorm:"default:''"`
	Email            string `gorm:"unique;not null"`
	Password         string `json:"-" gorm:"not null"`
	Role             string `gorm:"default:'EMPLOYEE'"` // EMPLOYEE, COORDINATOR, CSM, SUPER-ADMIN
	Status           string `gorm:"default:'ACTIVE'"`   // ACTIVE, INACTIVE
	OrganizationID   *uint  `json:"organization_id" gorm:"index"` // nil for CSM / SUPER-ADMIN
	Profession       string `gorm:"default:''"`                   // employee-only classification
	Sector           string `gorm:"default:''"`
	ProfileCompleted bool   `gorm:"default:false"`
	Points           uint   `gorm:"default:0"`
	Badges           datatypes.JSONSlice[string] `json:"badges"`
	LastLogin        time.Time                   `gorm:"default:NULL"`
	IsDeleted        bool                        `gorm:"default:false"`
}

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleEmployee, RoleCoordinator, RoleCSM, RoleSuperAdmin:
		return true
	default:
		return false
	}
}
