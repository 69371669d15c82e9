package submissionController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	assignmentRoutes "lms/routers/assignmentRoutes"
	authRoutes "lms/routers/authRoutes"
)

type gradingFixture struct {
	app        *fiber.App
	db         *gorm.DB
	instructor models.User
	student    models.User
	lesson     courseModels.Lesson
	course     courseModels.Course
}

func setupGradingFixture(t *testing.T) *gradingFixture {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	assignmentRoutes.SetupAssignmentRoutes(app)

	f := &gradingFixture{app: app, db: db}

	f.instructor = f.createUser(t, "Ravi Instructor", "ravi@example.com", "INSTRUCTOR")
	f.student = f.createUser(t, "Asha Student", "asha@example.com", "STUDENT")

	f.course = courseModels.Course{
		Title:        "Intro to Go",
		InstructorID: f.instructor.ID,
		Status:       "PUBLISHED",
	}
	require.NoError(t, db.Create(&f.course).Error)

	module := courseModels.Module{CourseID: f.course.ID, Title: "Basics"}
	require.NoError(t, db.Create(&module).Error)

	f.lesson = courseModels.Lesson{
		CourseID:    f.course.ID,
		ModuleID:    module.ID,
		Title:       "Error handling",
		TextContent: "Errors are values.",
	}
	require.NoError(t, db.Create(&f.lesson).Error)

	enrollment := courseModels.Enrollment{
		UserID:   f.student.ID,
		CourseID: f.course.ID,
		Status:   courseModels.EnrollmentActive,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return f
}

func (f *gradingFixture) createUser(t *testing.T, name, email, role string) models.User {
	t.Helper()

	resp, _ := f.jsonReq(t, "POST", "/api/auth/register", fiber.Map{
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

func (f *gradingFixture) login(t *testing.T, email string) string {
	t.Helper()

	resp, body := f.jsonReq(t, "POST", "/api/auth/login", fiber.Map{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return body["data"].(map[string]interface{})["token"].(string)
}

func (f *gradingFixture) jsonReq(t *testing.T, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
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

// formReq submits a form-encoded body, the way the submission endpoint
// receives student work
func (f *gradingFixture) formReq(t *testing.T, path, content, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	form := url.Values{}
	if content != "" {
		form.Set("content", content)
	}

	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func (f *gradingFixture) createAssignment(t *testing.T, token string, fields fiber.Map) uint {
	t.Helper()

	payload := fiber.Map{
		"lesson_id":   f.lesson.ID,
		"title":       "Essay on interfaces",
		"description": "Write about Go interfaces.",
	}
	for k, v := range fields {
		payload[k] = v
	}

	resp, body := f.jsonReq(t, "POST", "/api/instructor/assignment", payload, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	return uint(body["data"].(map[string]interface{})["ID"].(float64))
}

func TestSubmitAndGradeFlow(t *testing.T) {
	f := setupGradingFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	assignmentID := f.createAssignment(t, instructorToken, nil)

	// Student submits
	resp, body := f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "My essay text.", studentToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_late"])
	submissionID := uint(data["submission"].(map[string]interface{})["ID"].(float64))

	// Second submission is rejected
	resp, body = f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "Changed my mind.", studentToken)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "AlreadySubmitted", body["data"].(map[string]interface{})["reason"])

	// Instructor grades it
	resp, body = f.jsonReq(t, "POST", fmt.Sprintf("/api/instructor/submission/%d/grade", submissionID), fiber.Map{
		"grade":    85,
		"feedback": "Solid work.",
		"version":  1,
	}, instructorToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	// Grading with a stale version is rejected
	resp, body = f.jsonReq(t, "POST", fmt.Sprintf("/api/instructor/submission/%d/grade", submissionID), fiber.Map{
		"grade":    70,
		"feedback": "Second thoughts.",
		"version":  1,
	}, instructorToken)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ConcurrentModification", body["data"].(map[string]interface{})["reason"])

	// Student sees the first grade
	resp, body = f.jsonReq(t, "GET", fmt.Sprintf("/api/assignment/%d/my-submission", assignmentID), nil, studentToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	view := body["data"].(map[string]interface{})
	assert.Equal(t, float64(85), view["grade"])
	assert.Equal(t, "Solid work.", view["feedback"])
	assert.Equal(t, float64(2), view["version"])
}

func TestEmptySubmissionRejected(t *testing.T) {
	f := setupGradingFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	assignmentID := f.createAssignment(t, instructorToken, nil)

	resp, body := f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "", studentToken)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EmptySubmission", body["data"].(map[string]interface{})["reason"])

	// Whitespace only counts as empty too
	resp, body = f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "   ", studentToken)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EmptySubmission", body["data"].(map[string]interface{})["reason"])
}

func TestClosedAssignmentRejectsSubmission(t *testing.T) {
	f := setupGradingFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	pastDue := time.Now().Add(-24 * time.Hour)
	assignmentID := f.createAssignment(t, instructorToken, fiber.Map{
		"due_date":              pastDue.Format(time.RFC3339),
		"allow_late_submission": false,
	})

	resp, body := f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "Too late.", studentToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "AssignmentClosed", body["data"].(map[string]interface{})["reason"])
}

func TestLateSubmissionPenaltyAppliedAtReadTime(t *testing.T) {
	f := setupGradingFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	pastDue := time.Now().Add(-24 * time.Hour)
	assignmentID := f.createAssignment(t, instructorToken, fiber.Map{
		"due_date":              pastDue.Format(time.RFC3339),
		"allow_late_submission": true,
		"late_penalty_percent":  10,
	})

	resp, body := f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "Better late than never.", studentToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_late"])
	submissionID := uint(data["submission"].(map[string]interface{})["ID"].(float64))

	resp, body = f.jsonReq(t, "POST", fmt.Sprintf("/api/instructor/submission/%d/grade", submissionID), fiber.Map{
		"grade":    90,
		"feedback": "Good, but late.",
		"version":  1,
	}, instructorToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	// The stored grade stays 90, the displayed grade carries the penalty
	resp, body = f.jsonReq(t, "GET", fmt.Sprintf("/api/assignment/%d/my-submission", assignmentID), nil, studentToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	view := body["data"].(map[string]interface{})
	assert.Equal(t, float64(81), view["grade"])
	assert.Equal(t, float64(90), view["raw_grade"])
}

func TestGradeOutOfRange(t *testing.T) {
	f := setupGradingFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	assignmentID := f.createAssignment(t, instructorToken, fiber.Map{"max_points": 50})

	resp, body := f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "Short answer.", studentToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	submissionID := uint(body["data"].(map[string]interface{})["submission"].(map[string]interface{})["ID"].(float64))

	resp, body = f.jsonReq(t, "POST", fmt.Sprintf("/api/instructor/submission/%d/grade", submissionID), fiber.Map{
		"grade":   60,
		"version": 1,
	}, instructorToken)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "GradeOutOfRange", body["data"].(map[string]interface{})["reason"])
}

func TestGradeRequiresCourseOwnership(t *testing.T) {
	f := setupGradingFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	f.createUser(t, "Nina Instructor", "nina@example.com", "INSTRUCTOR")
	otherToken := f.login(t, "nina@example.com")

	assignmentID := f.createAssignment(t, instructorToken, nil)

	resp, body := f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "Graded by whom?", studentToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	submissionID := uint(body["data"].(map[string]interface{})["submission"].(map[string]interface{})["ID"].(float64))

	resp, body = f.jsonReq(t, "POST", fmt.Sprintf("/api/instructor/submission/%d/grade", submissionID), fiber.Map{
		"grade":   80,
		"version": 1,
	}, otherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NotAuthorized", body["data"].(map[string]interface{})["reason"])
}

func TestBulkGradeSubmissions(t *testing.T) {
	f := setupGradingFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	f.createUser(t, "Ben Student", "ben@example.com", "STUDENT")
	benToken := f.login(t, "ben@example.com")
	var ben models.User
	require.NoError(t, f.db.Where("email = ?", "ben@example.com").First(&ben).Error)
	require.NoError(t, f.db.Create(&courseModels.Enrollment{
		UserID:   ben.ID,
		CourseID: f.course.ID,
		Status:   courseModels.EnrollmentActive,
	}).Error)

	assignmentID := f.createAssignment(t, instructorToken, nil)

	resp, body := f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "Asha's essay.", studentToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	ashaSubID := uint(body["data"].(map[string]interface{})["submission"].(map[string]interface{})["ID"].(float64))

	resp, body = f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", assignmentID), "Ben's essay.", benToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	benSubID := uint(body["data"].(map[string]interface{})["submission"].(map[string]interface{})["ID"].(float64))

	// One stale version in the batch only fails that item
	resp, body = f.jsonReq(t, "POST", fmt.Sprintf("/api/instructor/assignment/%d/bulk-grade", assignmentID), fiber.Map{
		"grades": []fiber.Map{
			{"submission_id": ashaSubID, "grade": 90, "feedback": "Solid.", "version": 1},
			{"submission_id": benSubID, "grade": 70, "feedback": "Expand the examples.", "version": 5},
		},
	}, instructorToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["graded"])

	results := data["results"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, "graded", results[0].(map[string]interface{})["status"])
	assert.Equal(t, "conflict", results[1].(map[string]interface{})["status"])

	// Instructor fetch of a single submission shows the stored grade
	resp, body = f.jsonReq(t, "GET", fmt.Sprintf("/api/instructor/submission/%d", ashaSubID), nil, instructorToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	view := body["data"].(map[string]interface{})
	assert.Equal(t, float64(90), view["grade"])
	assert.Equal(t, float64(2), view["version"])

	var untouched courseModels.Submission
	require.NoError(t, f.db.Where("id = ?", benSubID).First(&untouched).Error)
	assert.Nil(t, untouched.Grade)
	assert.Equal(t, 1, untouched.Version)
}

func TestBulkGradeRejectsSubmissionFromOtherAssignment(t *testing.T) {
	f := setupGradingFixture(t)
	instructorToken := f.login(t, "ravi@example.com")
	studentToken := f.login(t, "asha@example.com")

	firstID := f.createAssignment(t, instructorToken, nil)
	secondID := f.createAssignment(t, instructorToken, fiber.Map{"title": "Essay on channels"})

	resp, body := f.formReq(t, fmt.Sprintf("/api/assignment/%d/submit", firstID), "Belongs to the first.", studentToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])
	subID := uint(body["data"].(map[string]interface{})["submission"].(map[string]interface{})["ID"].(float64))

	resp, body = f.jsonReq(t, "POST", fmt.Sprintf("/api/instructor/assignment/%d/bulk-grade", secondID), fiber.Map{
		"grades": []fiber.Map{
			{"submission_id": subID, "grade": 50, "version": 1},
		},
	}, instructorToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	results := body["data"].(map[string]interface{})["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "not_found", results[0].(map[string]interface{})["status"])
}
