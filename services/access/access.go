// Package access decides which records a principal may read or write. The
// decisions are independent of the storage technology: the checks are local,
// and only the lookups (member listing, signup-domain resolution) touch the
// database. Nothing here mutates state.
package access

import (
	"errors"
	"strings"

	"sinfony/models"

	"gorm.io/gorm"
)

var (
	ErrForbidden            = errors.New("forbidden")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrRecordNotFound       = errors.New("record not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidEmail         = errors.New("invalid email address")
)

// VisibleMembers returns the member records the actor may read.
//
// Coordinators see active, non-superadmin users of their own organization.
// CSM and superadmin dashboards aggregate across all organizations, so their
// query is unscoped. Employees have no listing capability.
func VisibleMembers(db *gorm.DB, actor *models.User) ([]models.User, error) {
	switch actor.Role {
	case models.RoleCoordinator:
		if actor.OrganizationID == nil {
			return nil, ErrForbidden
		}
		var users []models.User
		err := db.Where(
			"organization_id = ? AND status = ? AND role <> ? AND is_deleted = ?",
			*actor.OrganizationID, models.StatusActive, models.RoleSuperAdmin, false,
		).Order("name asc").Find(&users).Error
		if err != nil {
			return nil, err
		}
		return users, nil
	case models.RoleCSM, models.RoleSuperAdmin:
		var users []models.User
		err := db.Where("is_deleted = ?", false).Order("name asc").Find(&users).Error
		if err != nil {
			return nil, err
		}
		return users, nil
	case models.RoleEmployee:
		return nil, ErrForbidden
	default:
		return nil, ErrForbidden
	}
}

// CanMutateRole gates role changes. The only permitted transition is a
// coordinator promoting an employee of their own organization to coordinator.
// There is no demotion path.
func CanMutateRole(actor, target *models.User, newRole string) error {
	if !models.ValidRole(newRole) {
		return ErrInvalidRole
	}
	switch actor.Role {
	case models.RoleCoordinator:
		if !sameOrganization(actor, target) {
			return ErrForbidden
		}
		if target.Role != models.RoleEmployee || newRole != models.RoleCoordinator {
			return ErrForbidden
		}
		return nil
	case models.RoleEmployee, models.RoleCSM, models.RoleSuperAdmin:
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

// CanMutateStatus gates active/inactive toggles: coordinators only, within
// their own organization. Deactivation is a status flip, never a delete.
func CanMutateStatus(actor, target *models.User, newStatus string) error {
	if newStatus != models.StatusActive && newStatus != models.StatusInactive {
		return ErrInvalidStatus
	}
	switch actor.Role {
	case models.RoleCoordinator:
		if !sameOrganization(actor, target) {
			return ErrForbidden
		}
		return nil
	case models.RoleEmployee, models.RoleCSM, models.RoleSuperAdmin:
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

// DomainOf extracts the domain part of an email address.
func DomainOf(email string) (string, error) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email[at+1:]), nil
}

// ResolveSignupOrganization binds a new signup to a tenant by email domain.
// This is the sole binding mechanism: when no organization matches, signup
// must fail before any user row is created.
func ResolveSignupOrganization(db *gorm.DB, emailDomain string) (uint, error) {
	var org models.Organization
	err := db.Where("domain = ? AND is_deleted = ?", strings.ToLower(emailDomain), false).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrOrganizationNotFound
		}
		return 0, err
	}
	return org.ID, nil
}

func sameOrganization(actor, target *models.User) bool {
	if actor.OrganizationID == nil || target.OrganizationID == nil {
		return false
	}
	return *actor.OrganizationID == *target.OrganizationID
}
