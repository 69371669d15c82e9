package enrollmentController

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/access"
	"lms/services/progress"
	"lms/utils"
)

// EnrollInCourse enrolls the user in a course. Repeating the call
// after success returns a conflict, it never creates a second active
// record.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Drafts are only enrollable by their instructor
	if !course.IsPublished() && user.ID != course.InstructorID && user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Course is not available for enrollment!", nil)
	}

	var enrollment courseModels.Enrollment

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var existing courseModels.Enrollment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
			First(&existing).Error

		switch {
		case err == nil && existing.Status != courseModels.EnrollmentWithdrawn:
			return errAlreadyEnrolled

		case err == nil:
			// Re-enroll after withdrawal: reuse the row but start a
			// fresh cycle at progress 0. Completions from the old
			// cycle are removed so the recompute starts clean and the
			// unique completion index stays satisfiable.
			if err := tx.Unscoped().
				Where("user_id = ? AND course_id = ?", userID, courseID).
				Delete(&courseModels.LessonCompletion{}).Error; err != nil {
				return err
			}
			existing.Status = courseModels.EnrollmentActive
			existing.Progress = 0
			existing.EnrolledAt = time.Now()
			existing.CompletedAt = nil
			existing.WithdrawnAt = nil
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			enrollment = existing
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			enrollment = courseModels.Enrollment{
				UserID:     userID,
				CourseID:   uint(courseID),
				Status:     courseModels.EnrollmentActive,
				Progress:   0,
				EnrolledAt: time.Now(),
			}
			// The unique index on (user_id, course_id) turns a lost
			// race into a constraint error instead of a second row.
			return tx.Create(&enrollment).Error

		default:
			return err
		}
	})

	if err != nil {
		if errors.Is(err, errAlreadyEnrolled) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}
		log.Printf("Error enrolling user %d in course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	// Confirmation email, best effort
	go utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

var errAlreadyEnrolled = errors.New("already enrolled")

// UnenrollFromCourse withdraws the user from a course. The record is
// kept (marked withdrawn) so grading history stays intact.
func UnenrollFromCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var enrollment courseModels.Enrollment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?",
				userID, courseID, courseModels.EnrollmentWithdrawn, false).
			First(&enrollment).Error
		if err != nil {
			return err
		}

		now := time.Now()
		enrollment.Status = courseModels.EnrollmentWithdrawn
		enrollment.WithdrawnAt = &now
		return tx.Save(&enrollment).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not enrolled in this course!", nil)
		}
		log.Printf("Error withdrawing user %d from course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll from course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled from course successfully!", nil)
}

// GetEnrollmentStatus reports whether the user is enrolled in a course
func GetEnrollmentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?",
			userID, courseID, courseModels.EnrollmentWithdrawn, false).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status fetched successfully!", fiber.Map{
				"is_enrolled": false,
				"enrollment":  nil,
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status fetched successfully!", fiber.Map{
		"is_enrolled": true,
		"enrollment":  enrollment,
	})
}

// GetMyEnrollments lists the user's enrollments with pagination
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ?", userID, false)

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}

// CompleteLesson records a lesson completion and recomputes the
// enrollment's progress. Completing the same lesson twice does not
// change the percentage. The enrollment row is locked so concurrent
// completions cannot lose an update.
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lesson.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	completedCourse := false

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?",
				userID, course.ID, courseModels.EnrollmentWithdrawn, false).
			First(&enrollment).Error
		if err != nil {
			return err
		}

		decision := access.Evaluate(user, course, &enrollment)
		if !decision.Allowed {
			return errAccessDenied
		}

		// Idempotent completion insert. A racing duplicate trips the
		// unique completion index; that still means "completed".
		var existing courseModels.LessonCompletion
		err = tx.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lesson.ID, false).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			completion := courseModels.LessonCompletion{
				UserID:   userID,
				CourseID: course.ID,
				LessonID: lesson.ID,
			}
			if err := tx.Create(&completion).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
		} else if err != nil {
			return err
		}

		// Recompute from counts, never increment
		completedLessons, totalLessons, err := ProgressCounts(tx, userID, course.ID)
		if err != nil {
			return err
		}

		pct := progress.Compute(int(completedLessons), int(totalLessons))
		enrollment.Progress = pct
		newStatus := progress.StatusFor(pct)
		if newStatus == courseModels.EnrollmentCompleted && enrollment.Status != courseModels.EnrollmentCompleted {
			now := time.Now()
			enrollment.CompletedAt = &now
			completedCourse = true
		}
		enrollment.Status = newStatus

		return tx.Save(&enrollment).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!",
				access.Decision{Allowed: false, Reason: access.ReasonEnrollmentRequired})
		}
		if errors.Is(err, errAccessDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
		}
		log.Printf("Error completing lesson %d for user %d: %v", lessonID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record lesson completion!", nil)
	}

	if completedCourse {
		go utils.SendCourseCompletedEmail(user.Email, user.Name, course.Title)
		go utils.NotifyCourseCompleted(user.ID, course.ID, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson completed!", enrollment)
}

var errAccessDenied = errors.New("access denied")

// ProgressCounts returns how many live lessons the course has and how
// many of those the user has completed. Completions pointing at deleted
// lessons are excluded, so removing a lesson can lower the percentage.
func ProgressCounts(tx *gorm.DB, userID uint, courseID uint) (completed int64, total int64, err error) {
	if err = tx.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	if err = tx.Model(&courseModels.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id AND lessons.is_deleted = ?", false).
		Where("lesson_completions.user_id = ? AND lesson_completions.course_id = ? AND lesson_completions.is_deleted = ?",
			userID, courseID, false).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}

	return completed, total, nil
}

// GetCourseProgress returns the user's progress in a course together
// with the completed lesson ids
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status <> ? AND is_deleted = ?",
			userID, courseID, courseModels.EnrollmentWithdrawn, false).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var completions []courseModels.LessonCompletion
	database.Database.Db.Model(&courseModels.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id AND lessons.is_deleted = ?", false).
		Where("lesson_completions.user_id = ? AND lesson_completions.course_id = ? AND lesson_completions.is_deleted = ?",
			userID, courseID, false).
		Find(&completions)

	completedIDs := make([]uint, len(completions))
	for i, cc := range completions {
		completedIDs[i] = cc.LessonID
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":           enrollment,
		"completed_lesson_ids": completedIDs,
	})
}

// GetCourseStudents lists enrollments for a course. Only the course
// instructor and admins may call this.
func GetCourseStudents(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false)

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}

// GetTopStudents returns the highest-progress enrollments of a course
func GetTopStudents(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Where("course_id = ? AND status <> ? AND is_deleted = ?", courseID, courseModels.EnrollmentWithdrawn, false).
		Order("progress desc, updated_at asc").Limit(limit).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch top students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Top students fetched successfully!", enrollments)
}

// GetInstructorEnrollments lists enrollments across all of the
// caller's courses (admins see every course)
func GetInstructorEnrollments(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("enrollments.is_deleted = ?", false)
	if user.Role != "ADMIN" {
		db = db.Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.instructor_id = ?", user.ID)
	}

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("enrollments.created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}

// BulkEnrollUsers enrolls a batch of users into a course (admin).
// Each user is reported individually; already-enrolled users are
// skipped rather than failing the batch.
func BulkEnrollUsers(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedBulkEnroll").(*struct {
		CourseID uint   `json:"course_id"`
		UserIDs  []uint `json:"user_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	type bulkEnrollResult struct {
		UserID uint   `json:"user_id"`
		Status string `json:"status"`
	}

	results := make([]bulkEnrollResult, 0, len(reqData.UserIDs))
	enrolled := 0

	for _, targetID := range reqData.UserIDs {
		var target models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&target).Error; err != nil {
			results = append(results, bulkEnrollResult{UserID: targetID, Status: "user_not_found"})
			continue
		}

		status := ""
		err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
			var existing courseModels.Enrollment
			err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", targetID, course.ID, false).
				First(&existing).Error

			switch {
			case err == nil && existing.Status != courseModels.EnrollmentWithdrawn:
				status = "already_enrolled"
				return nil

			case err == nil:
				if err := tx.Unscoped().
					Where("user_id = ? AND course_id = ?", targetID, course.ID).
					Delete(&courseModels.LessonCompletion{}).Error; err != nil {
					return err
				}
				existing.Status = courseModels.EnrollmentActive
				existing.Progress = 0
				existing.EnrolledAt = time.Now()
				existing.CompletedAt = nil
				existing.WithdrawnAt = nil
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				status = "enrolled"
				return nil

			case errors.Is(err, gorm.ErrRecordNotFound):
				enrollment := courseModels.Enrollment{
					UserID:     targetID,
					CourseID:   course.ID,
					Status:     courseModels.EnrollmentActive,
					EnrolledAt: time.Now(),
				}
				if err := tx.Create(&enrollment).Error; err != nil {
					return err
				}
				status = "enrolled"
				return nil

			default:
				return err
			}
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				results = append(results, bulkEnrollResult{UserID: targetID, Status: "already_enrolled"})
				continue
			}
			log.Printf("Error bulk enrolling user %d in course %d: %v", targetID, course.ID, err)
			results = append(results, bulkEnrollResult{UserID: targetID, Status: "failed"})
			continue
		}

		results = append(results, bulkEnrollResult{UserID: targetID, Status: status})
		if status == "enrolled" {
			enrolled++
			go utils.SendEnrollmentEmail(target.Email, target.Name, course.Title)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bulk enrollment processed!", fiber.Map{
		"enrolled": enrolled,
		"results":  results,
	})
}

// GetEnrollmentStats returns platform-wide enrollment counts (admin)
func GetEnrollmentStats(c *fiber.Ctx) error {
	var total, active, completed, withdrawn int64

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false)
	db.Count(&total)
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("status = ? AND is_deleted = ?", courseModels.EnrollmentActive, false).Count(&active)
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("status = ? AND is_deleted = ?", courseModels.EnrollmentCompleted, false).Count(&completed)
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("status = ? AND is_deleted = ?", courseModels.EnrollmentWithdrawn, false).Count(&withdrawn)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment stats fetched successfully!", fiber.Map{
		"total":     total,
		"active":    active,
		"completed": completed,
		"withdrawn": withdrawn,
	})
}

// GetRecentEnrollments returns the latest enrollments (admin)
func GetRecentEnrollments(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("enrolled_at desc").Limit(limit).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recent enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recent enrollments fetched successfully!", enrollments)
}
