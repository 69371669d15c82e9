package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	authController "lms/controllers/auth"
	"lms/middleware"
	authValidator "lms/validators/auth"
)

// SetupAuthRoutes sets up authentication and profile routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", authValidator.Signup(), authController.Register)
	authGroup.Post("/login", authValidator.Login(), authController.Login)

	authGroup.Get("/profile", middleware.JWTMiddleware, authController.GetProfile)
	authGroup.Put("/profile", middleware.JWTMiddleware, authValidator.UpdateProfile(), authController.UpdateProfile)
	authGroup.Get("/login-history", middleware.JWTMiddleware, authController.LoginHistory)
}
