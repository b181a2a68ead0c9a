package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/directory"
)

// parseFilter reads q, specialty, city and availability from the query
// string. Missing or "all" values mean no filter.
func parseFilter(c *fiber.Ctx) (directory.Filter, error) {
	f := directory.NoFilter()
	f.Search = strings.TrimSpace(c.Query("q"))
	if sp := c.Query("specialty"); sp != "" && !strings.EqualFold(sp, directory.AllSpecialties) {
		f.Specialty = sp
	}
	if city := c.Query("city"); city != "" && !strings.EqualFold(city, directory.AllCities) {
		f.City = city
	}
	a, err := directory.ParseAvailability(c.Query("availability"))
	if err != nil {
		return f, err
	}
	f.Availability = a
	return f, nil
}
