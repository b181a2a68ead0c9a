package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/controllers"
	"github.com/meinhoongagan/careforme-admin/middleware"
	"github.com/meinhoongagan/careforme-admin/utils"
	"github.com/rs/zerolog"
)

// Controllers groups every HTTP handler set.
type Controllers struct {
	Auth     *controllers.AuthController
	Doctor   *controllers.DoctorController
	Report   *controllers.ReportController
	Settings *controllers.SettingsController
}

// NewApp builds the fiber app with the global middleware and all routes.
func NewApp(logger zerolog.Logger, allowOrigins string, authSvc *auth.Service, ctrls Controllers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "careforme-admin",
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(middleware.Recovery(logger))
	app.Use(middleware.Logger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, ctrls.Auth, authSvc)
	SetupDoctorRoutes(app, ctrls.Doctor, authSvc)
	SetupReportRoutes(app, ctrls.Report, authSvc)
	SetupSettingsRoutes(app, ctrls.Settings, authSvc)

	return app
}

func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code == fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(utils.NewErrorResponse(code, fiberutils.StatusMessage(code), err))
	}
}
