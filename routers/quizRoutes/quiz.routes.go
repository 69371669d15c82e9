package quizRoutes

import (
	"github.com/gofiber/fiber/v2"

	quizController "lms/controllers/quiz"
	"lms/middleware"
	courseValidator "lms/validators/course"
	quizValidator "lms/validators/quiz"
)

// SetupQuizRoutes sets up quiz taking and management routes
func SetupQuizRoutes(app *fiber.App) {
	lessonGroup := app.Group("/api/lesson")

	// Taking quizzes
	lessonGroup.Get("/:lessonId/quizzes", middleware.JWTMiddleware, courseValidator.LessonID(), quizController.GetLessonQuizzes)
	lessonGroup.Post("/:lessonId/quiz/submit", middleware.JWTMiddleware, courseValidator.LessonID(), quizValidator.SubmitAnswers(), quizController.SubmitQuizAnswers)

	// Management
	manage := app.Group("/api/instructor",
		middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"))
	manage.Post("/quiz", quizValidator.QuizBody(), quizController.CreateQuiz)
	manage.Get("/quiz/:quizId", quizValidator.QuizID(), quizController.GetQuiz)
	manage.Put("/quiz/:quizId", quizValidator.QuizID(), quizValidator.QuizBody(), quizController.UpdateQuiz)
	manage.Delete("/quiz/:quizId", quizValidator.QuizID(), quizController.DeleteQuiz)
	manage.Post("/quiz/:quizId/duplicate", quizValidator.QuizID(), quizController.DuplicateQuiz)
	manage.Post("/lesson/:lessonId/quizzes", courseValidator.LessonID(), quizValidator.QuizBulkBody(), quizController.BulkCreateQuizzes)
	manage.Get("/lesson/:lessonId/quiz-stats", courseValidator.LessonID(), quizController.GetQuizStats)
}
