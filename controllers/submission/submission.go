package submissionController

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/access"
	"lms/services/grading"
	"lms/utils"
)

// GradeInput is the validated shape for grading a submission. Version
// must match the stored row or the grade is rejected as a concurrent
// modification.
type GradeInput struct {
	Grade    int    `json:"grade"`
	Feedback string `json:"feedback"`
	Version  int    `json:"version"`
}

func loadEnrollment(userID uint, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?",
			userID, courseID, courseModels.EnrollmentWithdrawn, false).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

// SubmitAssignment records a student's work for an assignment. Text
// content comes from the validated body; an optional file upload is
// stored alongside it. One submission per student per assignment.
func SubmitAssignment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment, err := loadEnrollment(userID, course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
	}

	decision := access.Evaluate(user, course, enrollment)
	if !decision.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", decision)
	}

	content := strings.TrimSpace(c.FormValue("content"))

	fileURL := ""
	if file, err := c.FormFile("file"); err == nil && file != nil {
		savedPath, err := utils.SaveUploadedFile(file, "submissions")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save uploaded file!", nil)
		}
		fileURL = savedPath
	}

	if content == "" && fileURL == "" {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Submission must include text or a file!", fiber.Map{
			"reason": "EmptySubmission",
		})
	}

	now := time.Now()

	if assignment.IsClosed(now) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Assignment is closed for submissions!", fiber.Map{
			"reason": "AssignmentClosed",
		})
	}

	isLate := assignment.DueDate != nil && now.After(*assignment.DueDate)

	submission := courseModels.Submission{
		AssignmentID: assignment.ID,
		UserID:       userID,
		Content:      content,
		FileURL:      fileURL,
		SubmittedAt:  now,
		IsLate:       isLate,
		Version:      1,
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var existing courseModels.Submission
		err := tx.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", assignment.ID, userID, false).
			First(&existing).Error
		if err == nil {
			return errAlreadySubmitted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&submission).Error
	})
	if err != nil {
		if errors.Is(err, errAlreadySubmitted) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already submitted this assignment!", fiber.Map{
				"reason": "AlreadySubmitted",
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", fiber.Map{
		"submission": submission,
		"is_late":    isLate,
	})
}

var errAlreadySubmitted = errors.New("already submitted")

type submissionView struct {
	ID           uint       `json:"id"`
	AssignmentID uint       `json:"assignment_id"`
	UserID       uint       `json:"user_id"`
	Content      string     `json:"content"`
	FileURL      string     `json:"file_url"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	IsLate       bool       `json:"is_late"`
	Grade        *int       `json:"grade"`
	RawGrade     *int       `json:"raw_grade"`
	Feedback     string     `json:"feedback"`
	GradedAt     *time.Time `json:"graded_at"`
	Version      int        `json:"version"`
}

func viewOf(sub courseModels.Submission, asg courseModels.Assignment) submissionView {
	return submissionView{
		ID:           sub.ID,
		AssignmentID: sub.AssignmentID,
		UserID:       sub.UserID,
		Content:      sub.Content,
		FileURL:      sub.FileURL,
		SubmittedAt:  sub.SubmittedAt,
		IsLate:       sub.IsLate,
		Grade:        grading.DisplayGrade(sub, asg),
		RawGrade:     sub.Grade,
		Feedback:     sub.Feedback,
		GradedAt:     sub.GradedAt,
		Version:      sub.Version,
	}
}

// GetMySubmission returns the caller's submission for an assignment,
// with the late penalty applied to the displayed grade
func GetMySubmission(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var submission courseModels.Submission
	err := database.Database.Db.Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", assignmentID, userID, false).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "You have not submitted this assignment!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission fetched successfully!", viewOf(submission, assignment))
}

// GetMySubmissions lists all of the caller's submissions
func GetMySubmissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var submissions []courseModels.Submission
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("submitted_at desc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	views := make([]submissionView, 0, len(submissions))
	for _, sub := range submissions {
		var assignment courseModels.Assignment
		if err := database.Database.Db.Where("id = ?", sub.AssignmentID).First(&assignment).Error; err != nil {
			continue
		}
		views = append(views, viewOf(sub, assignment))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", views)
}

// GetAssignmentSubmissions lists all submissions for an assignment
// (course owner or admin)
func GetAssignmentSubmissions(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	var submissions []courseModels.Submission
	if err := database.Database.Db.Where("assignment_id = ? AND is_deleted = ?", assignmentID, false).
		Order("submitted_at asc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	views := make([]submissionView, 0, len(submissions))
	for _, sub := range submissions {
		views = append(views, viewOf(sub, assignment))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", views)
}

// GetSubmission returns a single submission (course owner or admin)
func GetSubmission(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	submissionID := c.Locals("submissionID").(int)

	var submission courseModels.Submission
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submissionID, false).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submission.AssignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission fetched successfully!", viewOf(submission, assignment))
}

// BulkGradeItem grades one submission inside a batch
type BulkGradeItem struct {
	SubmissionID uint   `json:"submission_id"`
	Grade        int    `json:"grade"`
	Feedback     string `json:"feedback"`
	Version      int    `json:"version"`
}

// BulkGradeInput is the validated shape for grading several
// submissions of one assignment at once
type BulkGradeInput struct {
	Grades []BulkGradeItem `json:"grades"`
}

// BulkGradeSubmissions grades a batch of submissions for an
// assignment. Items succeed or fail individually; a stale version on
// one submission does not abort the rest.
func BulkGradeSubmissions(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	reqData, ok := c.Locals("validatedBulkGrade").(*BulkGradeInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not authorized to grade this submission!", fiber.Map{
			"reason": "NotAuthorized",
		})
	}

	type bulkGradeResult struct {
		SubmissionID uint   `json:"submission_id"`
		Status       string `json:"status"`
	}

	results := make([]bulkGradeResult, 0, len(reqData.Grades))
	graded := 0

	for _, item := range reqData.Grades {
		var submission courseModels.Submission
		err := database.Database.Db.
			Where("id = ? AND assignment_id = ? AND is_deleted = ?", item.SubmissionID, assignment.ID, false).
			First(&submission).Error
		if err != nil {
			results = append(results, bulkGradeResult{SubmissionID: item.SubmissionID, Status: "not_found"})
			continue
		}

		if item.Grade < 0 || item.Grade > assignment.MaxPoints {
			results = append(results, bulkGradeResult{SubmissionID: item.SubmissionID, Status: "grade_out_of_range"})
			continue
		}

		now := time.Now()
		result := database.Database.Db.Model(&courseModels.Submission{}).
			Where("id = ? AND version = ?", submission.ID, item.Version).
			Updates(map[string]interface{}{
				"grade":     item.Grade,
				"feedback":  item.Feedback,
				"graded_by": user.ID,
				"graded_at": now,
				"version":   item.Version + 1,
			})
		if result.Error != nil {
			results = append(results, bulkGradeResult{SubmissionID: item.SubmissionID, Status: "failed"})
			continue
		}
		if result.RowsAffected == 0 {
			results = append(results, bulkGradeResult{SubmissionID: item.SubmissionID, Status: "conflict"})
			continue
		}

		graded++
		results = append(results, bulkGradeResult{SubmissionID: item.SubmissionID, Status: "graded"})

		grade := item.Grade
		submission.Grade = &grade

		var student models.User
		if err := database.Database.Db.Where("id = ?", submission.UserID).First(&student).Error; err == nil {
			go utils.SendGradeEmail(student.Email, student.Name, assignment.Title, *grading.DisplayGrade(submission, assignment))
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bulk grading processed!", fiber.Map{
		"graded":  graded,
		"results": results,
	})
}

// GradeSubmission assigns a grade and feedback to a submission. The
// grader must own the course or be an admin, the grade must fall within
// [0, max_points], and the submitted version must match the stored row.
func GradeSubmission(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	submissionID := c.Locals("submissionID").(int)

	reqData, ok := c.Locals("validatedGrade").(*GradeInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var submission courseModels.Submission
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submissionID, false).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submission.AssignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not authorized to grade this submission!", fiber.Map{
			"reason": "NotAuthorized",
		})
	}

	if reqData.Grade < 0 || reqData.Grade > assignment.MaxPoints {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Grade is outside the assignment's point range!", fiber.Map{
			"reason":     "GradeOutOfRange",
			"max_points": assignment.MaxPoints,
		})
	}

	now := time.Now()
	grade := reqData.Grade

	// Compare-and-swap on version so two graders cannot silently
	// overwrite each other
	result := database.Database.Db.Model(&courseModels.Submission{}).
		Where("id = ? AND version = ?", submission.ID, reqData.Version).
		Updates(map[string]interface{}{
			"grade":     grade,
			"feedback":  reqData.Feedback,
			"graded_by": user.ID,
			"graded_at": now,
			"version":   reqData.Version + 1,
		})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Submission was modified by someone else!", fiber.Map{
			"reason": "ConcurrentModification",
		})
	}

	submission.Grade = &grade
	submission.Feedback = reqData.Feedback
	submission.GradedBy = &user.ID
	submission.GradedAt = &now
	submission.Version = reqData.Version + 1

	var student models.User
	if err := database.Database.Db.Where("id = ?", submission.UserID).First(&student).Error; err == nil {
		go utils.SendGradeEmail(student.Email, student.Name, assignment.Title, *grading.DisplayGrade(submission, assignment))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", viewOf(submission, assignment))
}
