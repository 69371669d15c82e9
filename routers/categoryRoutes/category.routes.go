package categoryRoutes

import (
	"github.com/gofiber/fiber/v2"

	categoryController "lms/controllers/category"
	"lms/middleware"
	categoryValidator "lms/validators/category"
)

// SetupCategoryRoutes sets up course category routes
func SetupCategoryRoutes(app *fiber.App) {
	categoryGroup := app.Group("/api/categories")

	categoryGroup.Get("/", categoryController.ListCategories)

	admin := app.Group("/api/admin/categories",
		middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"))
	admin.Post("/", categoryValidator.CategoryBody(), categoryController.CreateCategory)
	admin.Put("/:categoryId", categoryValidator.CategoryID(), categoryValidator.CategoryBody(), categoryController.UpdateCategory)
	admin.Delete("/:categoryId", categoryValidator.CategoryID(), categoryController.DeleteCategory)
}
