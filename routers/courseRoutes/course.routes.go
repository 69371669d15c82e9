package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"
)

// SetupCourseRoutes sets up the public course catalog and content routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/course")

	// Catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/instructor/:instructorId", middleware.JWTMiddleware, validators.InstructorID(), controllers.GetInstructorCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:id/modules", middleware.JWTMiddleware, validators.CourseID(), controllers.ListModules)

	// Content viewing (access checked in the controllers)
	moduleGroup := app.Group("/api/module")
	moduleGroup.Get("/:moduleId/lessons", middleware.JWTMiddleware, validators.ModuleID(), controllers.GetModuleLessons)

	lessonGroup := app.Group("/api/lesson")
	lessonGroup.Get("/:lessonId", middleware.JWTMiddleware, validators.LessonID(), controllers.GetLesson)

	// Certificates
	courseGroup.Post("/:id/certificate/request", middleware.JWTMiddleware, validators.CourseID(), controllers.RequestCertificate)

	userGroup := app.Group("/api/user")
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetMyCertificates)
}

// SetupInstructorCourseRoutes sets up course management routes for
// instructors and admins
func SetupInstructorCourseRoutes(app *fiber.App) {
	manage := app.Group("/api/instructor/course",
		middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"))

	// Course CRUD
	manage.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	manage.Put("/:id", validators.UpdateCourse(), controllers.UpdateCourse)
	manage.Post("/:id/publish", validators.CourseID(), controllers.PublishCourse)
	manage.Delete("/:id", validators.CourseID(), controllers.DeleteCourse)

	// Module management
	manage.Post("/:id/module", validators.CourseID(), validators.ModuleBody(), controllers.CreateModule)
	manage.Put("/:id/module/:moduleId", validators.CourseID(), validators.ModuleID(), validators.ModuleBody(), controllers.UpdateModule)
	manage.Delete("/:id/module/:moduleId", validators.CourseID(), validators.ModuleID(), controllers.DeleteModule)

	// Lesson management
	lessonManage := app.Group("/api/instructor",
		middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"))
	lessonManage.Post("/module/:moduleId/lesson", validators.ModuleID(), validators.LessonBody(), controllers.CreateLesson)
	lessonManage.Put("/lesson/:lessonId", validators.LessonID(), validators.LessonBody(), controllers.UpdateLesson)
	lessonManage.Delete("/lesson/:lessonId", validators.LessonID(), controllers.DeleteLesson)
}

// SetupCertificateAdminRoutes sets up certificate review routes (admin)
func SetupCertificateAdminRoutes(app *fiber.App) {
	admin := app.Group("/api/admin/certificates",
		middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"))

	admin.Get("/pending", controllers.GetPendingCertificateRequests)
	admin.Post("/:requestId/approve", validators.RequestID(), controllers.ApproveCertificateRequest)
	admin.Post("/:requestId/reject", validators.RejectCertificate(), controllers.RejectCertificateRequest)
}
