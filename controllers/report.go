package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/services"
	"github.com/rs/zerolog"
)

type ReportController struct {
	reports *services.ReportService
	logger  zerolog.Logger
}

func NewReportController(reports *services.ReportService, logger zerolog.Logger) *ReportController {
	return &ReportController{reports: reports, logger: logger}
}

// GetDashboardOverview returns the summary cards and top-5 lists
func (rc *ReportController) GetDashboardOverview(c *fiber.Ctx) error {
	d, err := rc.reports.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, rc.logger, "Failed to load dashboard", err)
	}
	return c.JSON(d)
}

// GetReport returns the chart data and the filtered table
func (rc *ReportController) GetReport(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	r, err := rc.reports.Report(c.UserContext(), f)
	if err != nil {
		return respondError(c, rc.logger, "Failed to build report", err)
	}
	return c.JSON(r)
}

// ExportCSV downloads the filtered table as doctors_report.csv
func (rc *ReportController) ExportCSV(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	out, err := rc.reports.ExportCSV(c.UserContext(), f)
	if err != nil {
		return respondError(c, rc.logger, "Failed to export doctors", err)
	}

	c.Attachment(directory.CSVFilename)
	c.Set(fiber.HeaderContentType, directory.CSVMimeType)
	return c.SendString(out)
}
