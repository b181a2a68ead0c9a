package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/services"
	"github.com/meinhoongagan/careforme-admin/utils"
	"github.com/rs/zerolog"
)

const pictureFolder = "careforme/doctors"

type DoctorController struct {
	doctors  *services.DoctorService
	uploader utils.Uploader
	logger   zerolog.Logger
}

// NewDoctorController takes a nil uploader when Cloudinary is not configured.
func NewDoctorController(doctors *services.DoctorService, uploader utils.Uploader, logger zerolog.Logger) *DoctorController {
	return &DoctorController{doctors: doctors, uploader: uploader, logger: logger}
}

// GetDoctors returns the filtered directory with display placeholders
func (dc *DoctorController) GetDoctors(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	doctors, err := dc.doctors.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, dc.logger, "Failed to fetch doctors", err)
	}

	out := make([]directory.Doctor, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, d.Display())
	}
	return c.JSON(fiber.Map{
		"doctors": out,
		"count":   len(out),
	})
}

// GetMeta returns the form constants and the known locations
func (dc *DoctorController) GetMeta(c *fiber.Ctx) error {
	doctors, err := dc.doctors.Refresh(c.UserContext())
	if err != nil {
		return respondError(c, dc.logger, "Failed to fetch doctors", err)
	}
	return c.JSON(fiber.Map{
		"specialties": directory.Specialties,
		"weekdays":    directory.Weekdays,
		"locations":   directory.Locations(doctors),
	})
}

func (dc *DoctorController) GetDoctor(c *fiber.Ctx) error {
	d, err := dc.doctors.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, dc.logger, "Doctor not found", err)
	}
	return c.JSON(d.Display())
}

func (dc *DoctorController) CreateDoctor(c *fiber.Ctx) error {
	input := map[string]interface{}{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	d, err := dc.doctors.Create(c.UserContext(), directory.RawRecord(input))
	if err != nil {
		return respondError(c, dc.logger, "Failed to create doctor", err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (dc *DoctorController) UpdateDoctor(c *fiber.Ctx) error {
	patch := map[string]interface{}{}
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	d, err := dc.doctors.Update(c.UserContext(), c.Params("id"), directory.RawRecord(patch))
	if err != nil {
		return respondError(c, dc.logger, "Failed to update doctor", err)
	}
	return c.JSON(d)
}

func (dc *DoctorController) DeleteDoctor(c *fiber.Ctx) error {
	if err := dc.doctors.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, dc.logger, "Failed to delete doctor", err)
	}
	return c.JSON(fiber.Map{
		"message": "Doctor deleted successfully",
	})
}

// ToggleSuspension flips the suspended flag and returns the new value
func (dc *DoctorController) ToggleSuspension(c *fiber.Ctx) error {
	id := c.Params("id")
	suspended, err := dc.doctors.ToggleSuspension(c.UserContext(), id)
	if err != nil {
		return respondError(c, dc.logger, "Failed to update doctor status", err)
	}
	return c.JSON(fiber.Map{
		"id":        id,
		"suspended": suspended,
	})
}

// UploadPicture stores the "picture" form file on Cloudinary and saves its URL
func (dc *DoctorController) UploadPicture(c *fiber.Ctx) error {
	if dc.uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Picture uploads are not configured",
		})
	}

	id := c.Params("id")
	if _, err := dc.doctors.Get(c.UserContext(), id); err != nil {
		return respondError(c, dc.logger, "Doctor not found", err)
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "picture file is required",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot read picture",
		})
	}
	defer file.Close()

	url, err := dc.uploader.UploadImage(c.UserContext(), file, fmt.Sprintf("doctor_%s", id), pictureFolder)
	if err != nil {
		dc.logger.Error().Err(err).Str("doctor_id", id).Msg("picture upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to upload picture",
		})
	}

	d, err := dc.doctors.SetProfilePicture(c.UserContext(), id, url)
	if err != nil {
		return respondError(c, dc.logger, "Failed to save picture", err)
	}
	return c.JSON(d)
}
