package access

import (
	"testing"

	"sinfony/database"
	"sinfony/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	return db
}

func orgUser(role string, orgID uint) *models.User {
	return &models.User{Role: role, OrganizationID: &orgID}
}

func TestVisibleMembersCoordinatorScope(t *testing.T) {
	db := setupTestDB(t)

	orgA := models.Organization{Name: "Hospital A", Domain: "hospitala.com.br"}
	orgB := models.Organization{Name: "Hospital B", Domain: "hospitalb.com.br"}
	require.NoError(t, db.Create(&orgA).Error)
	require.NoError(t, db.Create(&orgB).Error)

	users := []models.User{
		{Name: "Ana", Email: "ana@hospitala.com.br", Password: "x", Role: models.RoleEmployee, Status: models.StatusActive, OrganizationID: &orgA.ID},
		{Name: "Bia", Email: "bia@hospitala.com.br", Password: "x", Role: models.RoleEmployee, Status: models.StatusInactive, OrganizationID: &orgA.ID},
		{Name: "Caio", Email: "caio@hospitalb.com.br", Password: "x", Role: models.RoleEmployee, Status: models.StatusActive, OrganizationID: &orgB.ID},
		{Name: "Root", Email: "root@hospitala.com.br", Password: "x", Role: models.RoleSuperAdmin, Status: models.StatusActive, OrganizationID: &orgA.ID},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	coordinator := orgUser(models.RoleCoordinator, orgA.ID)

	// Only active, non-superadmin members of the coordinator's own
	// organization are visible.
	visible, err := VisibleMembers(db, coordinator)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Ana", visible[0].Name)
}

func TestVisibleMembersByRole(t *testing.T) {
	db := setupTestDB(t)

	org := models.Organization{Name: "Hospital A", Domain: "hospitala.com.br"}
	require.NoError(t, db.Create(&org).Error)
	user := models.User{Name: "Ana", Email: "ana@hospitala.com.br", Password: "x", Status: models.StatusActive, OrganizationID: &org.ID}
	require.NoError(t, db.Create(&user).Error)

	_, err := VisibleMembers(db, orgUser(models.RoleEmployee, org.ID))
	assert.ErrorIs(t, err, ErrForbidden)

	// Coordinators with no organization binding get nothing.
	_, err = VisibleMembers(db, &models.User{Role: models.RoleCoordinator})
	assert.ErrorIs(t, err, ErrForbidden)

	// CSM and superadmin see across organizations.
	all, err := VisibleMembers(db, &models.User{Role: models.RoleCSM})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	all, err = VisibleMembers(db, &models.User{Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCanMutateRole(t *testing.T) {
	coordinator := orgUser(models.RoleCoordinator, 1)
	employee := orgUser(models.RoleEmployee, 1)

	// The one permitted transition: employee -> coordinator, same org.
	assert.NoError(t, CanMutateRole(coordinator, employee, models.RoleCoordinator))

	// No demotion path.
	assert.ErrorIs(t, CanMutateRole(coordinator, orgUser(models.RoleCoordinator, 1), models.RoleEmployee), ErrForbidden)

	// Cross-organization is denied even for the permitted transition.
	assert.ErrorIs(t, CanMutateRole(coordinator, orgUser(models.RoleEmployee, 2), models.RoleCoordinator), ErrForbidden)

	// Promotions may not cross into platform roles.
	assert.ErrorIs(t, CanMutateRole(coordinator, employee, models.RoleCSM), ErrForbidden)
	assert.ErrorIs(t, CanMutateRole(coordinator, employee, models.RoleSuperAdmin), ErrForbidden)

	// Non-coordinators may never change roles.
	assert.ErrorIs(t, CanMutateRole(employee, employee, models.RoleCoordinator), ErrForbidden)
	assert.ErrorIs(t, CanMutateRole(&models.User{Role: models.RoleCSM}, employee, models.RoleCoordinator), ErrForbidden)
	assert.ErrorIs(t, CanMutateRole(&models.User{Role: models.RoleSuperAdmin}, employee, models.RoleCoordinator), ErrForbidden)

	assert.ErrorIs(t, CanMutateRole(coordinator, employee, "MANAGER"), ErrInvalidRole)
}

func TestCanMutateStatus(t *testing.T) {
	coordinator := orgUser(models.RoleCoordinator, 1)
	employee := orgUser(models.RoleEmployee, 1)

	assert.NoError(t, CanMutateStatus(coordinator, employee, models.StatusInactive))
	assert.NoError(t, CanMutateStatus(coordinator, employee, models.StatusActive))

	assert.ErrorIs(t, CanMutateStatus(coordinator, orgUser(models.RoleEmployee, 2), models.StatusInactive), ErrForbidden)
	assert.ErrorIs(t, CanMutateStatus(employee, employee, models.StatusInactive), ErrForbidden)
	assert.ErrorIs(t, CanMutateStatus(coordinator, employee, "SUSPENDED"), ErrInvalidStatus)
}

func TestDomainOf(t *testing.T) {
	domain, err := DomainOf("maria@Hospital.com.br")
	require.NoError(t, err)
	assert.Equal(t, "hospital.com.br", domain)

	for _, bad := range []string{"", "maria", "@hospital.com.br", "maria@"} {
		_, err := DomainOf(bad)
		assert.ErrorIs(t, err, ErrInvalidEmail, "input %q", bad)
	}
}

func TestResolveSignupOrganization(t *testing.T) {
	db := setupTestDB(t)

	org := models.Organization{Name: "Hospital A", Domain: "hospitala.com.br"}
	require.NoError(t, db.Create(&org).Error)

	id, err := ResolveSignupOrganization(db, "hospitala.com.br")
	require.NoError(t, err)
	assert.Equal(t, org.ID, id)

	// Lookup is case-insensitive on the domain.
	id, err = ResolveSignupOrganization(db, "HospitalA.com.br")
	require.NoError(t, err)
	assert.Equal(t, org.ID, id)

	// Unknown domains fail resolution; signup must not proceed.
	_, err = ResolveSignupOrganization(db, "clinicadesconhecida.com.br")
	assert.ErrorIs(t, err, ErrOrganizationNotFound)

	// A soft-deleted organization no longer accepts signups.
	require.NoError(t, db.Model(&org).Update("is_deleted", true).Error)
	_, err = ResolveSignupOrganization(db, "hospitala.com.br")
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}
