package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/services"
	"github.com/rs/zerolog"
)

type SettingsController struct {
	settings *services.SettingsService
	logger   zerolog.Logger
}

func NewSettingsController(settings *services.SettingsService, logger zerolog.Logger) *SettingsController {
	return &SettingsController{settings: settings, logger: logger}
}

func (sc *SettingsController) GetNotifications(c *fiber.Ctx) error {
	s, err := sc.settings.Get(c.UserContext())
	if err != nil {
		return respondError(c, sc.logger, "Failed to load settings", err)
	}
	return c.JSON(s)
}

func (sc *SettingsController) UpdateNotifications(c *fiber.Ctx) error {
	type NotificationInput struct {
		NotificationEmail  string `json:"notificationEmail"`
		NotifyOnNewDoctors bool   `json:"notifyOnNewDoctors"`
	}
	input := new(NotificationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	s, err := sc.settings.Update(c.UserContext(), input.NotificationEmail, input.NotifyOnNewDoctors)
	if err != nil {
		return respondError(c, sc.logger, "Failed to save settings", err)
	}
	return c.JSON(s)
}
