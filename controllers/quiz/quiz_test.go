package quizController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	authRoutes "lms/routers/authRoutes"
	quizRoutes "lms/routers/quizRoutes"
)

type quizFixture struct {
	app        *fiber.App
	db         *gorm.DB
	instructor models.User
	student    models.User
	lesson     courseModels.Lesson
}

func setupQuizFixture(t *testing.T) *quizFixture {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	quizRoutes.SetupQuizRoutes(app)

	f := &quizFixture{app: app, db: db}

	f.instructor = f.createUser(t, "Ravi Instructor", "ravi@example.com", "INSTRUCTOR")
	f.student = f.createUser(t, "Asha Student", "asha@example.com", "STUDENT")

	course := courseModels.Course{
		Title:        "Intro to Go",
		InstructorID: f.instructor.ID,
		Status:       "PUBLISHED",
	}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{CourseID: course.ID, Title: "Basics"}
	require.NoError(t, db.Create(&module).Error)

	f.lesson = courseModels.Lesson{
		CourseID:    course.ID,
		ModuleID:    module.ID,
		Title:       "Variables",
		TextContent: "Declaring variables in Go.",
	}
	require.NoError(t, db.Create(&f.lesson).Error)

	enrollment := courseModels.Enrollment{
		UserID:   f.student.ID,
		CourseID: course.ID,
		Status:   courseModels.EnrollmentActive,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return f
}

func (f *quizFixture) createUser(t *testing.T, name, email, role string) models.User {
	t.Helper()

	resp, _ := f.request(t, "POST", "/api/auth/register", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, f.db.Where("email = ?", email).First(&user).Error)
	return user
}

func (f *quizFixture) login(t *testing.T, email string) string {
	t.Helper()

	resp, body := f.request(t, "POST", "/api/auth/login", fiber.Map{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return body["data"].(map[string]interface{})["token"].(string)
}

func (f *quizFixture) request(t *testing.T, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
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

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestQuizLifecycle(t *testing.T) {
	f := setupQuizFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	// Instructor creates a multiple choice quiz
	resp, body := f.request(t, "POST", "/api/instructor/quiz", fiber.Map{
		"lesson_id": f.lesson.ID,
		"question":  "What is the zero value of an int?",
		"quiz_type": "multiple_choice",
		"options":   []string{"0", "1", "nil"},
		"answer":    "0",
		"points":    5,
	}, instructorToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])

	// Student listing hides the answer
	resp, body = f.request(t, "GET", fmt.Sprintf("/api/lesson/%d/quizzes", f.lesson.ID), nil, studentToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	quizzes := body["data"].([]interface{})
	require.Len(t, quizzes, 1)
	quiz := quizzes[0].(map[string]interface{})
	_, hasAnswer := quiz["answer"]
	assert.False(t, hasAnswer, "students must not receive the stored answer")

	// Instructor listing includes the answer
	resp, body = f.request(t, "GET", fmt.Sprintf("/api/lesson/%d/quizzes", f.lesson.ID), nil, instructorToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	quizzes = body["data"].([]interface{})
	require.Len(t, quizzes, 1)
	assert.Equal(t, "0", quizzes[0].(map[string]interface{})["answer"])
}

func TestSubmitQuizAnswersScoresLeniently(t *testing.T) {
	f := setupQuizFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	resp, body := f.request(t, "POST", "/api/instructor/quiz", fiber.Map{
		"lesson_id": f.lesson.ID,
		"question":  "Is Go statically typed?",
		"quiz_type": "true_false",
		"answer":    "true",
	}, instructorToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	quizID := uint(body["data"].(map[string]interface{})["ID"].(float64))

	// Whitespace and case differences still count as correct
	resp, body = f.request(t, "POST", fmt.Sprintf("/api/lesson/%d/quiz/submit", f.lesson.ID), fiber.Map{
		"answers": map[string]string{
			fmt.Sprint(quizID): " TRUE ",
		},
	}, studentToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	result := body["data"].(map[string]interface{})["result"].(map[string]interface{})
	assert.Equal(t, float64(1), result["correct_count"])
	assert.Equal(t, float64(1), result["total"])
	assert.Equal(t, float64(100), result["percentage"])
}

func TestQuizAccessRequiresEnrollment(t *testing.T) {
	f := setupQuizFixture(t)

	f.createUser(t, "Omar Outsider", "omar@example.com", "STUDENT")
	outsiderToken := f.login(t, "omar@example.com")

	resp, body := f.request(t, "GET", fmt.Sprintf("/api/lesson/%d/quizzes", f.lesson.ID), nil, outsiderToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	decision := body["data"].(map[string]interface{})
	assert.Equal(t, "EnrollmentRequired", decision["reason"])
}

func TestBulkCreateAndDuplicateQuiz(t *testing.T) {
	f := setupQuizFixture(t)
	instructorToken := f.login(t, "ravi@example.com")

	resp, body := f.request(t, "POST", fmt.Sprintf("/api/instructor/lesson/%d/quizzes", f.lesson.ID), fiber.Map{
		"quizzes": []fiber.Map{
			{
				"question":  "What keyword declares a constant?",
				"quiz_type": "text",
				"answer":    "const",
			},
			{
				"question":  "Does Go have a ternary operator?",
				"quiz_type": "true_false",
				"answer":    "false",
			},
		},
	}, instructorToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])

	created := body["data"].([]interface{})
	require.Len(t, created, 2)
	firstID := uint(created[0].(map[string]interface{})["ID"].(float64))

	// Single fetch returns the stored answer to the instructor
	resp, body = f.request(t, "GET", fmt.Sprintf("/api/instructor/quiz/%d", firstID), nil, instructorToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "const", body["data"].(map[string]interface{})["answer"])

	// Duplicate makes a fresh row with the same content
	resp, body = f.request(t, "POST", fmt.Sprintf("/api/instructor/quiz/%d/duplicate", firstID), nil, instructorToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	clone := body["data"].(map[string]interface{})
	assert.NotEqual(t, float64(firstID), clone["ID"])
	assert.Equal(t, "What keyword declares a constant?", clone["question"])

	var count int64
	f.db.Model(&courseModels.Quiz{}).Where("lesson_id = ? AND is_deleted = ?", f.lesson.ID, false).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestBulkCreateQuizzesRejectsBadEntry(t *testing.T) {
	f := setupQuizFixture(t)
	instructorToken := f.login(t, "ravi@example.com")

	resp, _ := f.request(t, "POST", fmt.Sprintf("/api/instructor/lesson/%d/quizzes", f.lesson.ID), fiber.Map{
		"quizzes": []fiber.Map{
			{
				"question":  "A perfectly fine question, is it not?",
				"quiz_type": "text",
				"answer":    "yes",
			},
			{
				"question":  "too short",
				"quiz_type": "text",
				"answer":    "yes",
			},
		},
	}, instructorToken)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var count int64
	f.db.Model(&courseModels.Quiz{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateQuizRejectsOverlongAnswer(t *testing.T) {
	f := setupQuizFixture(t)
	instructorToken := f.login(t, "ravi@example.com")

	longAnswer := strings.Repeat("a", 501)
	resp, _ := f.request(t, "POST", "/api/instructor/quiz", fiber.Map{
		"lesson_id": f.lesson.ID,
		"question":  "How long can an answer really be?",
		"quiz_type": "text",
		"answer":    longAnswer,
	}, instructorToken)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateQuizRejectsForeignInstructor(t *testing.T) {
	f := setupQuizFixture(t)

	f.createUser(t, "Nina Instructor", "nina@example.com", "INSTRUCTOR")
	otherToken := f.login(t, "nina@example.com")

	resp, _ := f.request(t, "POST", "/api/instructor/quiz", fiber.Map{
		"lesson_id": f.lesson.ID,
		"question":  "Who owns this course anyway?",
		"quiz_type": "text",
		"answer":    "not nina",
	}, otherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
