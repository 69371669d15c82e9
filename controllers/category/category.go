package categoryController

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
)

// ListCategories returns all categories with their course counts
func ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("name asc").Find(&categories).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	type categoryWithCount struct {
		models.Category
		CourseCount int64 `json:"course_count"`
	}

	result := make([]categoryWithCount, len(categories))
	for i, cat := range categories {
		var count int64
		database.Database.Db.Table("courses").
			Where("category_id = ? AND status = ? AND is_deleted = ?", cat.ID, "PUBLISHED", false).
			Count(&count)
		result[i] = categoryWithCount{Category: cat, CourseCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", result)
}

// CreateCategory adds a category (admin)
func CreateCategory(c *fiber.Ctx) error {
	if _, ok := c.Locals("currentUser").(models.User); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCategory").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	category := models.Category{
		Name:        reqData.Name,
		Description: reqData.Description,
	}

	if err := database.Database.Db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category already exists!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", category)
}

// UpdateCategory renames a category (admin)
func UpdateCategory(c *fiber.Ctx) error {
	if _, ok := c.Locals("currentUser").(models.User); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	categoryID := c.Locals("categoryID").(int)

	reqData, ok := c.Locals("validatedCategory").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var category models.Category
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", categoryID, false).First(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
	}

	category.Name = reqData.Name
	category.Description = reqData.Description

	if err := database.Database.Db.Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category already exists!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category updated successfully!", category)
}

// DeleteCategory soft deletes a category (admin)
func DeleteCategory(c *fiber.Ctx) error {
	if _, ok := c.Locals("currentUser").(models.User); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	categoryID := c.Locals("categoryID").(int)

	var category models.Category
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", categoryID, false).First(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
	}

	var inUse int64
	database.Database.Db.Table("courses").
		Where("category_id = ? AND is_deleted = ?", category.ID, false).Count(&inUse)
	if inUse > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category still has courses!", fiber.Map{
			"course_count": inUse,
		})
	}

	category.IsDeleted = true
	if err := database.Database.Db.Save(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category deleted successfully!", nil)
}
