package assignmentValidator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	assignmentController "lms/controllers/assignment"
	submissionController "lms/controllers/submission"
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

// AssignmentID validates the :assignmentId route param
func AssignmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignmentID, ok := parseIDParam(c, "assignmentId", "Assignment ID")
		if !ok {
			return nil
		}
		c.Locals("assignmentID", assignmentID)
		return c.Next()
	}
}

// SubmissionID validates the :submissionId route param
func SubmissionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		submissionID, ok := parseIDParam(c, "submissionId", "Submission ID")
		if !ok {
			return nil
		}
		c.Locals("submissionID", submissionID)
		return c.Next()
	}
}

// AssignmentBody validates the assignment create/update payload
func AssignmentBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(assignmentController.AssignmentInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		title := strings.TrimSpace(reqData.Title)
		if len(title) < 3 || len(title) > 200 {
			errors["title"] = "Title must be between 3 and 200 characters!"
		}

		if strings.TrimSpace(reqData.Description) == "" || len(reqData.Description) > 2000 {
			errors["description"] = "Description must be between 1 and 2000 characters!"
		}

		if reqData.MaxPoints == 0 {
			reqData.MaxPoints = 100
		}
		if reqData.MaxPoints < 1 || reqData.MaxPoints > 1000 {
			errors["max_points"] = "Max points must be between 1 and 1000!"
		}

		if reqData.LatePenaltyPercent < 0 || reqData.LatePenaltyPercent > 100 {
			errors["late_penalty_percent"] = "Late penalty must be between 0 and 100!"
		}

		if reqData.AllowLateSubmission && reqData.DueDate == nil {
			errors["due_date"] = "Late submissions need a due date!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

// BulkGradeBody validates the batch grading payload. Field errors are
// keyed by position; the per-assignment grade ceiling is checked in
// the controller.
func BulkGradeBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(submissionController.BulkGradeInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Grades) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"grades": "At least one grade is required!",
			})
		}
		if len(reqData.Grades) > 100 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"grades": "At most 100 grades per request!",
			})
		}

		errors := make(map[string]string)
		for i, item := range reqData.Grades {
			if item.SubmissionID == 0 {
				errors[fmt.Sprintf("grades[%d].submission_id", i)] = "Submission ID is required!"
			}
			if item.Grade < 0 {
				errors[fmt.Sprintf("grades[%d].grade", i)] = "Grade cannot be negative!"
			}
			if item.Version < 1 {
				errors[fmt.Sprintf("grades[%d].version", i)] = "Submission version is required!"
			}
			if len(item.Feedback) > 2000 {
				errors[fmt.Sprintf("grades[%d].feedback", i)] = "Feedback must be at most 2000 characters!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBulkGrade", reqData)
		return c.Next()
	}
}

// GradeBody validates the grading payload. The upper grade bound
// depends on the assignment and is checked in the controller.
func GradeBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(submissionController.GradeInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Grade < 0 {
			errors["grade"] = "Grade cannot be negative!"
		}

		if reqData.Version < 1 {
			errors["version"] = "Submission version is required!"
		}

		if len(reqData.Feedback) > 2000 {
			errors["feedback"] = "Feedback must be at most 2000 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
