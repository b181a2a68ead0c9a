package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/controllers"
	"github.com/meinhoongagan/careforme-admin/middleware"
	"github.com/meinhoongagan/careforme-admin/models"
)

func SetupDoctorRoutes(app *fiber.App, dc *controllers.DoctorController, authSvc *auth.Service) {
	doctors := app.Group("/doctors", middleware.Protected(authSvc), middleware.RequireRole(models.RoleAdmin))

	doctors.Get("/", middleware.RequirePermission(authSvc, models.ResourceDoctors, models.ActionRead), dc.GetDoctors)
	doctors.Get("/meta", middleware.RequirePermission(authSvc, models.ResourceDoctors, models.ActionRead), dc.GetMeta)
	doctors.Get("/:id", middleware.RequirePermission(authSvc, models.ResourceDoctors, models.ActionRead), dc.GetDoctor)
	doctors.Post("/", middleware.RequirePermission(authSvc, models.ResourceDoctors, models.ActionCreate), dc.CreateDoctor)
	doctors.Patch("/:id", middleware.RequirePermission(authSvc, models.ResourceDoctors, models.ActionUpdate), dc.UpdateDoctor)
	doctors.Delete("/:id", middleware.RequirePermission(authSvc, models.ResourceDoctors, models.ActionDelete), dc.DeleteDoctor)
	doctors.Post("/:id/suspend", middleware.RequirePermission(authSvc, models.ResourceDoctors, models.ActionUpdate), dc.ToggleSuspension)
	doctors.Post("/:id/picture", middleware.RequirePermission(authSvc, models.ResourceDoctors, models.ActionUpdate), dc.UploadPicture)
}
