package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

func parseIDParam(c *fiber.Ctx, param string, label string) (int, bool) {
	idStr := strings.TrimSpace(c.Params(param))
	if idStr == "" {
		middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		return 0, false
	}

	return id, true
}

// CourseID validates the :id route param
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id", "Course ID")
		if !ok {
			return nil
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// InstructorID validates the :instructorId route param
func InstructorID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		instructorID, ok := parseIDParam(c, "instructorId", "Instructor ID")
		if !ok {
			return nil
		}
		c.Locals("instructorID", instructorID)
		return c.Next()
	}
}

// RequestID validates the :requestId route param for certificate reviews
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, ok := parseIDParam(c, "requestId", "Request ID")
		if !ok {
			return nil
		}
		c.Locals("requestID", requestID)
		return c.Next()
	}
}

// RejectCertificate validates the rejection payload
func RejectCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, ok := parseIDParam(c, "requestId", "Request ID")
		if !ok {
			return nil
		}

		reqData := new(struct {
			Reason string `json:"reason"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Reason) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"reason": "Rejection reason is required!",
			})
		}

		c.Locals("requestID", requestID)
		c.Locals("rejectionReason", reqData.Reason)
		return c.Next()
	}
}

// CourseList validates catalog listing query parameters
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int   `json:"page"`
			Limit    *int   `json:"limit"`
			Search   string `json:"q"`
			Category *int   `json:"category"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		if reqData.Limit != nil && (*reqData.Limit < 1 || *reqData.Limit > 100) {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		if reqData.Category != nil && *reqData.Category < 1 {
			errors["category"] = "Invalid category!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func validateCourseBody(c *fiber.Ctx) (*struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CategoryID   uint   `json:"category_id"`
	ThumbnailURL string `json:"thumbnail_url"`
}, map[string]string, error) {
	reqData := new(struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		CategoryID   uint   `json:"category_id"`
		ThumbnailURL string `json:"thumbnail_url"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return nil, nil, err
	}

	errors := make(map[string]string)

	title := strings.TrimSpace(reqData.Title)
	if len(title) < 3 || len(title) > 200 {
		errors["title"] = "Title must be between 3 and 200 characters!"
	}

	if len(reqData.Description) > 5000 {
		errors["description"] = "Description must be at most 5000 characters!"
	}

	if reqData.CategoryID == 0 {
		errors["category_id"] = "Category is required!"
	}

	return reqData, errors, nil
}

// CreateCourse validates the course creation payload
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, errors, err := validateCourseBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the :id param and update payload together
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id", "Course ID")
		if !ok {
			return nil
		}

		reqData, errors, err := validateCourseBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}
