package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/controllers"
	"github.com/meinhoongagan/careforme-admin/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, ac *controllers.AuthController, authSvc *auth.Service) {
	group := app.Group("/auth")

	// Public routes
	group.Post("/login", ac.Login)
	group.Post("/refresh", ac.RefreshToken)

	// Protected routes
	group.Get("/me", middleware.Protected(authSvc), ac.Me)
	group.Post("/logout", middleware.Protected(authSvc), ac.Logout)
	group.Post("/password", middleware.Protected(authSvc), ac.ChangePassword)
}
