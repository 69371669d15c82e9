package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
)

// GetAllCourses lists published courses with pagination and optional search
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page     *int   `json:"page"`
		Limit    *int   `json:"limit"`
		Search   string `json:"q"`
		Category *int   `json:"category"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("status = ? AND is_deleted = ?", "PUBLISHED", false)

	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if reqData.Category != nil {
		db = db.Where("category_id = ?", *reqData.Category)
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns a single course with its modules and lessons.
// Unpublished courses are only visible to their instructor and admins.
func GetCourseDetails(c *fiber.Ctx) error {
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

	if !course.IsPublished() && user.Role != "ADMIN" && user.ID != course.InstructorID {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules)

	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lessons)

	// Lesson content is served by the gated lesson endpoint; the
	// detail view only exposes the outline.
	type lessonOutline struct {
		ID         uint   `json:"id"`
		ModuleID   uint   `json:"module_id"`
		Title      string `json:"title"`
		OrderIndex int    `json:"order_index"`
		HasVideo   bool   `json:"has_video"`
	}
	outline := make([]lessonOutline, len(lessons))
	for i, l := range lessons {
		outline[i] = lessonOutline{
			ID:         l.ID,
			ModuleID:   l.ModuleID,
			Title:      l.Title,
			OrderIndex: l.OrderIndex,
			HasVideo:   l.VideoURL != "",
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":  course,
		"modules": modules,
		"lessons": outline,
	})
}

// GetInstructorCourses lists all courses owned by an instructor,
// including drafts when the requester is the owner or an admin
func GetInstructorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	instructorID := c.Locals("instructorID").(int)

	db := database.Database.Db.Where("instructor_id = ? AND is_deleted = ?", instructorID, false)
	if user.Role != "ADMIN" && user.ID != uint(instructorID) {
		db = db.Where("status = ?", "PUBLISHED")
	}

	var courses []courseModels.Course
	if err := db.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}
