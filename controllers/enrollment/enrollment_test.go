package enrollmentController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lms/config"
	enrollmentController "lms/controllers/enrollment"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/routers/authRoutes"
	"lms/routers/enrollmentRoutes"
	"lms/services/progress"
)

type enrollmentFixture struct {
	app     *fiber.App
	db      *gorm.DB
	student models.User
	course  courseModels.Course
}

func setupEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)

	f := &enrollmentFixture{app: app, db: db}

	resp, _ := f.request(t, "POST", "/api/auth/register", fiber.Map{
		"name":     "Asha Student",
		"email":    "asha@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, db.Where("email = ?", "asha@example.com").First(&f.student).Error)

	instructor := models.User{Name: "Ravi", Email: "ravi@example.com", Password: "x", Role: "INSTRUCTOR"}
	require.NoError(t, db.Create(&instructor).Error)

	f.course = courseModels.Course{
		Title:        "Intro to Go",
		InstructorID: instructor.ID,
		Status:       "PUBLISHED",
	}
	require.NoError(t, db.Create(&f.course).Error)

	return f
}

func (f *enrollmentFixture) login(t *testing.T) string {
	t.Helper()

	resp, body := f.request(t, "POST", "/api/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return body["data"].(map[string]interface{})["token"].(string)
}

func (f *enrollmentFixture) request(t *testing.T, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
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

func TestEnrollmentStatusReflectsLedger(t *testing.T) {
	f := setupEnrollmentFixture(t)
	token := f.login(t)

	// Not enrolled yet
	resp, body := f.request(t, "GET", fmt.Sprintf("/api/course/%d/enrollment", f.course.ID), nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_enrolled"])

	enrollment := courseModels.Enrollment{
		UserID:     f.student.ID,
		CourseID:   f.course.ID,
		Status:     courseModels.EnrollmentActive,
		Progress:   50,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, f.db.Create(&enrollment).Error)

	resp, body = f.request(t, "GET", fmt.Sprintf("/api/course/%d/enrollment", f.course.ID), nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_enrolled"])

	record := data["enrollment"].(map[string]interface{})
	assert.Equal(t, "ACTIVE", record["status"])
	assert.Equal(t, float64(50), record["progress"])
}

func TestGetMyEnrollmentsPaginated(t *testing.T) {
	f := setupEnrollmentFixture(t)
	token := f.login(t)

	for i := 0; i < 3; i++ {
		course := courseModels.Course{Title: fmt.Sprintf("Course %d", i), InstructorID: 1, Status: "PUBLISHED"}
		require.NoError(t, f.db.Create(&course).Error)
		enrollment := courseModels.Enrollment{
			UserID:     f.student.ID,
			CourseID:   course.ID,
			Status:     courseModels.EnrollmentActive,
			EnrolledAt: time.Now(),
		}
		require.NoError(t, f.db.Create(&enrollment).Error)
	}

	resp, body := f.request(t, "GET", "/api/user/enrollments?page=1&limit=2", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	enrollments := data["enrollments"].([]interface{})
	assert.Len(t, enrollments, 2)

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"])
}

func TestGetMyEnrollmentsRequiresPagination(t *testing.T) {
	f := setupEnrollmentFixture(t)
	token := f.login(t)

	resp, _ := f.request(t, "GET", "/api/user/enrollments", nil, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCourseProgressForEnrolledStudent(t *testing.T) {
	f := setupEnrollmentFixture(t)
	token := f.login(t)

	module := courseModels.Module{CourseID: f.course.ID, Title: "Basics"}
	require.NoError(t, f.db.Create(&module).Error)

	for i := 0; i < 4; i++ {
		lesson := courseModels.Lesson{
			CourseID:    f.course.ID,
			ModuleID:    module.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			TextContent: "text",
			OrderIndex:  i,
		}
		require.NoError(t, f.db.Create(&lesson).Error)
	}

	enrollment := courseModels.Enrollment{
		UserID:     f.student.ID,
		CourseID:   f.course.ID,
		Status:     courseModels.EnrollmentActive,
		Progress:   50,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, f.db.Create(&enrollment).Error)

	// Two of four lessons done
	var lessons []courseModels.Lesson
	require.NoError(t, f.db.Order("order_index asc").Find(&lessons).Error)
	for _, lesson := range lessons[:2] {
		completion := courseModels.LessonCompletion{
			UserID:   f.student.ID,
			CourseID: f.course.ID,
			LessonID: lesson.ID,
		}
		require.NoError(t, f.db.Create(&completion).Error)
	}

	resp, body := f.request(t, "GET", fmt.Sprintf("/api/course/%d/progress", f.course.ID), nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	record := data["enrollment"].(map[string]interface{})
	assert.Equal(t, float64(50), record["progress"])
	assert.Len(t, data["completed_lesson_ids"].([]interface{}), 2)
}

func TestCourseProgressRequiresEnrollment(t *testing.T) {
	f := setupEnrollmentFixture(t)
	token := f.login(t)

	resp, _ := f.request(t, "GET", fmt.Sprintf("/api/course/%d/progress", f.course.ID), nil, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func (f *enrollmentFixture) seedLessons(t *testing.T, n int) []courseModels.Lesson {
	t.Helper()

	module := courseModels.Module{CourseID: f.course.ID, Title: "Basics"}
	require.NoError(t, f.db.Create(&module).Error)

	lessons := make([]courseModels.Lesson, 0, n)
	for i := 0; i < n; i++ {
		lesson := courseModels.Lesson{
			CourseID:    f.course.ID,
			ModuleID:    module.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			TextContent: "text",
			OrderIndex:  i,
		}
		require.NoError(t, f.db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}
	return lessons
}

func (f *enrollmentFixture) complete(t *testing.T, lessonID uint) {
	t.Helper()

	require.NoError(t, f.db.Create(&courseModels.LessonCompletion{
		UserID:   f.student.ID,
		CourseID: f.course.ID,
		LessonID: lessonID,
	}).Error)
}

func TestProgressCountsIgnoreDeletedLessons(t *testing.T) {
	f := setupEnrollmentFixture(t)

	lessons := f.seedLessons(t, 3)
	f.complete(t, lessons[0].ID)
	f.complete(t, lessons[1].ID)

	completed, total, err := enrollmentController.ProgressCounts(f.db, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), completed)
	assert.Equal(t, int64(3), total)

	// Removing a completed lesson removes its completion from the count
	require.NoError(t, f.db.Model(&courseModels.Lesson{}).
		Where("id = ?", lessons[0].ID).Update("is_deleted", true).Error)

	completed, total, err = enrollmentController.ProgressCounts(f.db, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 50, progress.Compute(int(completed), int(total)))
}

func TestLessonCompletionIsIdempotent(t *testing.T) {
	f := setupEnrollmentFixture(t)

	lessons := f.seedLessons(t, 2)
	f.complete(t, lessons[0].ID)

	completed, total, err := enrollmentController.ProgressCounts(f.db, f.student.ID, f.course.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), completed)

	// A second row for the same lesson trips the unique index
	err = f.db.Create(&courseModels.LessonCompletion{
		UserID:   f.student.ID,
		CourseID: f.course.ID,
		LessonID: lessons[0].ID,
	}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	completed, total, err = enrollmentController.ProgressCounts(f.db, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)
	assert.Equal(t, int64(2), total)
}

func TestGetInstructorEnrollments(t *testing.T) {
	f := setupEnrollmentFixture(t)

	// f.course belongs to the seeded instructor; give them a login
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.User{}).
		Where("email = ?", "ravi@example.com").Update("password", string(hash)).Error)

	resp, body := f.request(t, "POST", "/api/auth/login", fiber.Map{
		"email":    "ravi@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	instructorToken := body["data"].(map[string]interface{})["token"].(string)

	require.NoError(t, f.db.Create(&courseModels.Enrollment{
		UserID:     f.student.ID,
		CourseID:   f.course.ID,
		Status:     courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	// An enrollment on someone else's course stays out of the listing
	otherCourse := courseModels.Course{Title: "Other", InstructorID: f.student.ID, Status: "PUBLISHED"}
	require.NoError(t, f.db.Create(&otherCourse).Error)
	require.NoError(t, f.db.Create(&courseModels.Enrollment{
		UserID:     f.student.ID,
		CourseID:   otherCourse.ID,
		Status:     courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	resp, body = f.request(t, "GET", "/api/instructor/enrollments?page=1&limit=10", nil, instructorToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	data := body["data"].(map[string]interface{})
	enrollments := data["enrollments"].([]interface{})
	require.Len(t, enrollments, 1)
	assert.Equal(t, float64(f.course.ID), enrollments[0].(map[string]interface{})["course_id"])
}

func TestBulkEnrollUsers(t *testing.T) {
	f := setupEnrollmentFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := models.User{Name: "Ada Admin", Email: "ada@example.com", Password: string(hash), Role: "ADMIN"}
	require.NoError(t, f.db.Create(&admin).Error)

	resp, body := f.request(t, "POST", "/api/auth/login", fiber.Map{
		"email":    "ada@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	adminToken := body["data"].(map[string]interface{})["token"].(string)

	already := models.User{Name: "Eli", Email: "eli@example.com", Password: "x", Role: "STUDENT"}
	require.NoError(t, f.db.Create(&already).Error)
	require.NoError(t, f.db.Create(&courseModels.Enrollment{
		UserID:     already.ID,
		CourseID:   f.course.ID,
		Status:     courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	resp, body = f.request(t, "POST", "/api/admin/enrollments/bulk", fiber.Map{
		"course_id": f.course.ID,
		"user_ids":  []uint{f.student.ID, already.ID, 9999},
	}, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["enrolled"])

	statuses := make(map[float64]string)
	for _, raw := range data["results"].([]interface{}) {
		item := raw.(map[string]interface{})
		statuses[item["user_id"].(float64)] = item["status"].(string)
	}
	assert.Equal(t, "enrolled", statuses[float64(f.student.ID)])
	assert.Equal(t, "already_enrolled", statuses[float64(already.ID)])
	assert.Equal(t, "user_not_found", statuses[float64(9999)])

	var enrollment courseModels.Enrollment
	require.NoError(t, f.db.Where("user_id = ? AND course_id = ?", f.student.ID, f.course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)
}
