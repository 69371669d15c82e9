package assignmentRoutes

import (
	"github.com/gofiber/fiber/v2"

	assignmentController "lms/controllers/assignment"
	submissionController "lms/controllers/submission"
	"lms/middleware"
	assignmentValidator "lms/validators/assignment"
	courseValidator "lms/validators/course"
)

// SetupAssignmentRoutes sets up assignment and submission routes
func SetupAssignmentRoutes(app *fiber.App) {
	// Student-facing assignment views
	lessonGroup := app.Group("/api/lesson")
	lessonGroup.Get("/:lessonId/assignments", middleware.JWTMiddleware, courseValidator.LessonID(), assignmentController.GetLessonAssignments)

	courseGroup := app.Group("/api/course")
	courseGroup.Get("/:id/assignments", middleware.JWTMiddleware, courseValidator.CourseID(), assignmentController.GetCourseAssignments)

	assignmentGroup := app.Group("/api/assignment")
	assignmentGroup.Get("/:assignmentId", middleware.JWTMiddleware, assignmentValidator.AssignmentID(), assignmentController.GetAssignment)

	// Submissions
	assignmentGroup.Post("/:assignmentId/submit", middleware.JWTMiddleware, assignmentValidator.AssignmentID(), submissionController.SubmitAssignment)
	assignmentGroup.Get("/:assignmentId/my-submission", middleware.JWTMiddleware, assignmentValidator.AssignmentID(), submissionController.GetMySubmission)

	userGroup := app.Group("/api/user")
	userGroup.Get("/submissions", middleware.JWTMiddleware, submissionController.GetMySubmissions)

	// Management and grading
	manage := app.Group("/api/instructor",
		middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"))
	manage.Post("/assignment", assignmentValidator.AssignmentBody(), assignmentController.CreateAssignment)
	manage.Put("/assignment/:assignmentId", assignmentValidator.AssignmentID(), assignmentValidator.AssignmentBody(), assignmentController.UpdateAssignment)
	manage.Delete("/assignment/:assignmentId", assignmentValidator.AssignmentID(), assignmentController.DeleteAssignment)
	manage.Get("/assignment/:assignmentId/submissions", assignmentValidator.AssignmentID(), submissionController.GetAssignmentSubmissions)
	manage.Get("/assignment/:assignmentId/stats", assignmentValidator.AssignmentID(), assignmentController.GetAssignmentStats)
	manage.Post("/assignment/:assignmentId/bulk-grade", assignmentValidator.AssignmentID(), assignmentValidator.BulkGradeBody(), submissionController.BulkGradeSubmissions)
	manage.Get("/submission/:submissionId", assignmentValidator.SubmissionID(), submissionController.GetSubmission)
	manage.Post("/submission/:submissionId/grade", assignmentValidator.SubmissionID(), assignmentValidator.GradeBody(), submissionController.GradeSubmission)
}
