package courseValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// ModuleID validates the :moduleId route param
func ModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok := parseIDParam(c, "moduleId", "Module ID")
		if !ok {
			return nil
		}
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// LessonID validates the :lessonId route param
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := parseIDParam(c, "lessonId", "Lesson ID")
		if !ok {
			return nil
		}
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// ModuleBody validates the module create/update payload
func ModuleBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			OrderIndex  *int   `json:"order_index"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		title := strings.TrimSpace(reqData.Title)
		if len(title) < 3 || len(title) > 200 {
			errors["title"] = "Title must be between 3 and 200 characters!"
		}

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// LessonBody validates the lesson create/update payload
func LessonBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			VideoURL    string `json:"video_url"`
			TextContent string `json:"text_content"`
			OrderIndex  *int   `json:"order_index"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		title := strings.TrimSpace(reqData.Title)
		if len(title) < 3 || len(title) > 200 {
			errors["title"] = "Title must be between 3 and 200 characters!"
		}

		if reqData.VideoURL == "" && strings.TrimSpace(reqData.TextContent) == "" {
			errors["content"] = "Lesson needs a video URL or text content!"
		}

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}
