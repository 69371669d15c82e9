package quizValidator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	quizController "lms/controllers/quiz"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/grading"
)

// QuizID validates the :quizId route param
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizIDStr := strings.TrimSpace(c.Params("quizId"))
		if quizIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz ID is required!", nil)
		}

		quizID, err := strconv.Atoi(quizIDStr)
		if err != nil || quizID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", quizID)
		return c.Next()
	}
}

// quizInputErrors validates one quiz payload, returning a field error
// map. Defaults (points) are applied in place.
func quizInputErrors(reqData *quizController.QuizInput) map[string]string {
	errors := make(map[string]string)

	question := strings.TrimSpace(reqData.Question)
	if len(question) < 10 || len(question) > 1000 {
		errors["question"] = "Question must be between 10 and 1000 characters!"
	}

	answer := strings.TrimSpace(reqData.Answer)
	if answer == "" || len(answer) > 500 {
		errors["answer"] = "Answer must be between 1 and 500 characters!"
	}

	switch reqData.QuizType {
	case courseModels.QuizMultipleChoice:
		validateMultipleChoice(reqData, errors)
	case courseModels.QuizTrueFalse:
		lowered := strings.ToLower(answer)
		if lowered != "true" && lowered != "false" {
			errors["answer"] = "Answer must be true or false!"
		}
	case courseModels.QuizText:
		// covered by the general answer bound above
	default:
		errors["quiz_type"] = "Quiz type must be multiple_choice, true_false or text!"
	}

	if reqData.Points == 0 {
		reqData.Points = 1
	}
	if reqData.Points < 1 || reqData.Points > 100 {
		errors["points"] = "Points must be between 1 and 100!"
	}

	return errors
}

// QuizBody validates the quiz create/update payload
func QuizBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizController.QuizInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := quizInputErrors(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// QuizBulkBody validates a batch quiz creation payload. Field errors
// are keyed by position so the client can pinpoint the bad entry.
func QuizBulkBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizController.QuizBulkInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Quizzes) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"quizzes": "At least one quiz is required!",
			})
		}
		if len(reqData.Quizzes) > 50 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"quizzes": "At most 50 quizzes per request!",
			})
		}

		errors := make(map[string]string)
		for i := range reqData.Quizzes {
			for field, msg := range quizInputErrors(&reqData.Quizzes[i]) {
				errors[fmt.Sprintf("quizzes[%d].%s", i, field)] = msg
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizzes", reqData)
		return c.Next()
	}
}

func validateMultipleChoice(reqData *quizController.QuizInput, errors map[string]string) {
	if len(reqData.Options) < 2 {
		errors["options"] = "Multiple choice quizzes need at least 2 options!"
		return
	}

	for _, opt := range reqData.Options {
		if strings.TrimSpace(opt) == "" {
			errors["options"] = "Options cannot be empty!"
			return
		}
	}

	for _, opt := range reqData.Options {
		if grading.AnswerMatches(reqData.Answer, opt) {
			return
		}
	}
	errors["answer"] = "Answer must be one of the options!"
}

// SubmitAnswers validates the quiz answer payload
func SubmitAnswers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers map[uint]string `json:"answers"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Answers) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "At least one answer is required!",
			})
		}

		c.Locals("validatedAnswers", reqData)
		return c.Next()
	}
}
