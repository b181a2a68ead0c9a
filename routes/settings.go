package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/controllers"
	"github.com/meinhoongagan/careforme-admin/middleware"
	"github.com/meinhoongagan/careforme-admin/models"
)

func SetupSettingsRoutes(app *fiber.App, sc *controllers.SettingsController, authSvc *auth.Service) {
	settings := app.Group("/settings", middleware.Protected(authSvc), middleware.RequireRole(models.RoleAdmin))

	settings.Get("/notifications", middleware.RequirePermission(authSvc, models.ResourceSettings, models.ActionRead), sc.GetNotifications)
	settings.Put("/notifications", middleware.RequirePermission(authSvc, models.ResourceSettings, models.ActionUpdate), sc.UpdateNotifications)
}
