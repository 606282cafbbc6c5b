package authController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sinfony/config"
	"sinfony/database"
	"sinfony/models"
	authValidator "sinfony/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: bcrypt.MinCost,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSignupUnknownDomain(t *testing.T) {
	app := setupApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Maria Silva",
		"email":    "maria@clinicadesconhecida.com.br",
		"password": "segredo123",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// No user row may exist after a failed signup.
	var count int64
	database.Database.Db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSignupBindsOrganization(t *testing.T) {
	app := setupApp(t)

	org := models.Organization{Name: "Hospital São Lucas", Domain: "hospitalsaolucas.com.br"}
	require.NoError(t, database.Database.Db.Create(&org).Error)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Maria Silva",
		"email":    "maria@hospitalsaolucas.com.br",
		"password": "segredo123",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "maria@hospitalsaolucas.com.br").First(&user).Error)
	require.NotNil(t, user.OrganizationID)
	assert.Equal(t, org.ID, *user.OrganizationID)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.Equal(t, models.StatusActive, user.Status)

	// Duplicate signup is rejected.
	resp = postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Maria Silva",
		"email":    "maria@hospitalsaolucas.com.br",
		"password": "segredo123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLoginRejectsInactive(t *testing.T) {
	app := setupApp(t)

	org := models.Organization{Name: "Hospital São Lucas", Domain: "hospitalsaolucas.com.br"}
	require.NoError(t, database.Database.Db.Create(&org).Error)

	hashed, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name:           "Maria Silva",
		Email:          "maria@hospitalsaolucas.com.br",
		Password:       string(hashed),
		Role:           models.RoleEmployee,
		Status:         models.StatusInactive,
		OrganizationID: &org.ID,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	resp := postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "maria@hospitalsaolucas.com.br",
		"password": "segredo123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Reactivated accounts log in normally and leave an audit row.
	require.NoError(t, database.Database.Db.Model(&user).Update("status", models.StatusActive).Error)

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "maria@hospitalsaolucas.com.br",
		"password": "segredo123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var trackingCount int64
	database.Database.Db.Model(&models.LoginTracking{}).Count(&trackingCount)
	assert.Equal(t, int64(1), trackingCount)
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: "Maria", Email: "maria@x.com.br", Password: string(hashed)}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	resp := postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "maria@x.com.br",
		"password": "errada",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
