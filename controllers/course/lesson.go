package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/access"
)

// loadEnrollment fetches the user's non-withdrawn enrollment for a
// course. Returns (nil, nil) when no record exists; a non-nil error
// means the lookup itself failed and must surface as a server error,
// never as a deny.
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

// checkLessonAccess runs the access evaluator for (user, course) and
// writes the Deny response when access is refused. Returns true when
// the caller may proceed.
func checkLessonAccess(c *fiber.Ctx, user models.User, course courseModels.Course) bool {
	enrollment, err := loadEnrollment(user.ID, course.ID)
	if err != nil {
		middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
		return false
	}

	decision := access.Evaluate(user, course, enrollment)
	if !decision.Allowed {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", decision)
		return false
	}
	return true
}

// GetLesson serves a lesson's full content. Access is re-checked
// server side on every call; enrollment is never taken from the
// client.
func GetLesson(c *fiber.Ctx) error {
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

	if !checkLessonAccess(c, user, course) {
		return nil
	}

	// Next/previous lesson ids for navigation, by course order
	var next, prev courseModels.Lesson
	hasNext := database.Database.Db.
		Where("course_id = ? AND order_index > ? AND is_deleted = ?", course.ID, lesson.OrderIndex, false).
		Order("order_index asc").First(&next).Error == nil
	hasPrev := database.Database.Db.
		Where("course_id = ? AND order_index < ? AND is_deleted = ?", course.ID, lesson.OrderIndex, false).
		Order("order_index desc").First(&prev).Error == nil

	resp := fiber.Map{"lesson": lesson}
	if hasNext {
		resp["next_lesson_id"] = next.ID
	}
	if hasPrev {
		resp["previous_lesson_id"] = prev.ID
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", resp)
}

// GetModuleLessons lists a module's lessons in order (outline only)
func GetModuleLessons(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !course.IsPublished() && user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var lessons []courseModels.Lesson
	if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

// CreateLesson adds a lesson to a module
func CreateLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	course := ownedCourse(c, user, int(module.CourseID))
	if course == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"video_url"`
		TextContent string `json:"text_content"`
		OrderIndex  *int   `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson := courseModels.Lesson{
		CourseID:    course.ID,
		ModuleID:    module.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    reqData.VideoURL,
		TextContent: reqData.TextContent,
	}

	if reqData.OrderIndex != nil {
		lesson.OrderIndex = *reqData.OrderIndex
	} else {
		// Append to the end of the course order
		var maxOrder int
		database.Database.Db.Model(&courseModels.Lesson{}).
			Where("course_id = ? AND is_deleted = ?", course.ID, false).
			Select("COALESCE(MAX(order_index), -1)").Scan(&maxOrder)
		lesson.OrderIndex = maxOrder + 1
	}

	// Lesson order must stay a total order per course
	var clash int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND order_index = ? AND is_deleted = ?", course.ID, lesson.OrderIndex, false).
		Count(&clash)
	if clash > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A lesson with this order index already exists!", nil)
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// UpdateLesson updates lesson fields
func UpdateLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	course := ownedCourse(c, user, int(lesson.CourseID))
	if course == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"video_url"`
		TextContent string `json:"text_content"`
		OrderIndex  *int   `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		lesson.Title = reqData.Title
	}
	if reqData.Description != "" {
		lesson.Description = reqData.Description
	}
	if reqData.VideoURL != "" {
		lesson.VideoURL = reqData.VideoURL
	}
	if reqData.TextContent != "" {
		lesson.TextContent = reqData.TextContent
	}
	if reqData.OrderIndex != nil && *reqData.OrderIndex != lesson.OrderIndex {
		var clash int64
		database.Database.Db.Model(&courseModels.Lesson{}).
			Where("course_id = ? AND order_index = ? AND is_deleted = ? AND id <> ?",
				course.ID, *reqData.OrderIndex, false, lesson.ID).
			Count(&clash)
		if clash > 0 {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A lesson with this order index already exists!", nil)
		}
		lesson.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// DeleteLesson soft deletes a lesson
func DeleteLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	course := ownedCourse(c, user, int(lesson.CourseID))
	if course == nil {
		return nil
	}

	lesson.IsDeleted = true
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
