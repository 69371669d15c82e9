package categoryValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// CategoryID validates the :categoryId route param
func CategoryID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		categoryIDStr := strings.TrimSpace(c.Params("categoryId"))
		if categoryIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Category ID is required!", nil)
		}

		categoryID, err := strconv.Atoi(categoryIDStr)
		if err != nil || categoryID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Category ID!", nil)
		}

		c.Locals("categoryID", categoryID)
		return c.Next()
	}
}

// CategoryBody validates the category create/update payload
func CategoryBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		name := strings.TrimSpace(reqData.Name)
		if len(name) < 2 || len(name) > 100 {
			errors["name"] = "Name must be between 2 and 100 characters!"
		}

		if len(reqData.Description) > 500 {
			errors["description"] = "Description must be at most 500 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}
