package enrollmentRoutes

import (
	"github.com/gofiber/fiber/v2"

	enrollmentController "lms/controllers/enrollment"
	"lms/middleware"
	courseValidator "lms/validators/course"
	enrollmentValidator "lms/validators/enrollment"
)

// SetupEnrollmentRoutes sets up enrollment and progress routes
func SetupEnrollmentRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/course")

	// Enrollment lifecycle
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, enrollmentValidator.EnrollCourse(), enrollmentController.EnrollInCourse)
	courseGroup.Post("/:id/unenroll", middleware.JWTMiddleware, enrollmentValidator.EnrollCourse(), enrollmentController.UnenrollFromCourse)
	courseGroup.Get("/:id/enrollment", middleware.JWTMiddleware, enrollmentValidator.EnrollCourse(), enrollmentController.GetEnrollmentStatus)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, enrollmentValidator.EnrollCourse(), enrollmentController.GetCourseProgress)

	// Progress tracking
	lessonGroup := app.Group("/api/lesson")
	lessonGroup.Post("/:lessonId/complete", middleware.JWTMiddleware, courseValidator.LessonID(), enrollmentController.CompleteLesson)

	userGroup := app.Group("/api/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, enrollmentValidator.EnrollmentList(), enrollmentController.GetMyEnrollments)

	// Instructor views
	instructorGroup := app.Group("/api/instructor/course",
		middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"))
	instructorGroup.Get("/:id/students", enrollmentValidator.EnrollCourse(), enrollmentValidator.EnrollmentList(), enrollmentController.GetCourseStudents)
	instructorGroup.Get("/:id/top-students", enrollmentValidator.EnrollCourse(), enrollmentController.GetTopStudents)

	instructorRoot := app.Group("/api/instructor",
		middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"))
	instructorRoot.Get("/enrollments", enrollmentValidator.EnrollmentList(), enrollmentController.GetInstructorEnrollments)

	// Admin reporting
	adminGroup := app.Group("/api/admin/enrollments",
		middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"))
	adminGroup.Get("/stats", enrollmentController.GetEnrollmentStats)
	adminGroup.Get("/recent", enrollmentController.GetRecentEnrollments)
	adminGroup.Post("/bulk", enrollmentValidator.BulkEnroll(), enrollmentController.BulkEnrollUsers)
}
