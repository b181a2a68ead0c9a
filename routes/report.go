package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/controllers"
	"github.com/meinhoongagan/careforme-admin/middleware"
	"github.com/meinhoongagan/careforme-admin/models"
)

func SetupReportRoutes(app *fiber.App, rc *controllers.ReportController, authSvc *auth.Service) {
	canRead := middleware.RequirePermission(authSvc, models.ResourceReports, models.ActionRead)

	app.Get("/dashboard", middleware.Protected(authSvc), middleware.RequireRole(models.RoleAdmin), canRead, rc.GetDashboardOverview)

	reports := app.Group("/reports", middleware.Protected(authSvc), middleware.RequireRole(models.RoleAdmin))
	reports.Get("/", canRead, rc.GetReport)
	reports.Get("/export", canRead, rc.ExportCSV)
}
