package authController_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	authRoutes "lms/routers/authRoutes"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func jsonRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func registerUser(t *testing.T, app *fiber.App, name, email, role string) {
	t.Helper()

	resp, _ := jsonRequest(t, app, "POST", "/api/auth/register", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func loginUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp, body := jsonRequest(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "Asha Student", "asha@example.com", "STUDENT")
	token := loginUser(t, app, "asha@example.com")
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "Asha Student", "asha@example.com", "STUDENT")

	resp, body := jsonRequest(t, app, "POST", "/api/auth/register", fiber.Map{
		"name":     "Another Person",
		"email":    "asha@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email is already registered!", body["message"])
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	app := setupApp(t)

	resp, _ := jsonRequest(t, app, "POST", "/api/auth/register", fiber.Map{
		"name":     "Sneaky Admin",
		"email":    "admin@example.com",
		"password": "password123",
		"role":     "ADMIN",
	}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "Asha Student", "asha@example.com", "STUDENT")

	resp, _ := jsonRequest(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "wrongpassword",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginBlocksAfterRepeatedFailures(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "Asha Student", "asha@example.com", "STUDENT")

	for i := 0; i < 3; i++ {
		resp, _ := jsonRequest(t, app, "POST", "/api/auth/login", fiber.Map{
			"email":    "asha@example.com",
			"password": "wrongpassword",
		}, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}

	// Correct password is rejected while blocked
	resp, body := jsonRequest(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body["message"], "blocked")
}

func TestProfileRequiresToken(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetAndUpdateProfile(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "Asha Student", "asha@example.com", "STUDENT")
	token := loginUser(t, app, "asha@example.com")

	resp, body := jsonRequest(t, app, "GET", "/api/auth/profile", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", data["email"])
	assert.Equal(t, "STUDENT", data["role"])

	resp, body = jsonRequest(t, app, "PUT", "/api/auth/profile", fiber.Map{
		"bio": "Learning Go, one course at a time.",
	}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "Learning Go, one course at a time.", data["bio"])

	// Login history recorded the successful login
	resp, body = jsonRequest(t, app, "GET", "/api/auth/login-history", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	history := body["data"].([]interface{})
	assert.Len(t, history, 1)
}
