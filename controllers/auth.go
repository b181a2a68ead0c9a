package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/middleware"
	"github.com/rs/zerolog"
)

type AuthController struct {
	auth   *auth.Service
	logger zerolog.Logger
}

func NewAuthController(svc *auth.Service, logger zerolog.Logger) *AuthController {
	return &AuthController{auth: svc, logger: logger}
}

// Login handles admin authentication
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	res, err := ac.auth.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return respondError(c, ac.logger, "Login failed", err)
	}
	return c.JSON(res)
}

// Logout revokes the current access token and the optional refresh token
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "No authentication token",
		})
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot parse JSON",
			})
		}
	}

	if err := ac.auth.Logout(c.UserContext(), claims, body.RefreshToken); err != nil {
		return respondError(c, ac.logger, "Logout failed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// RefreshToken generates a new access token using a refresh token
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	req := new(RefreshRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	token, exp, err := ac.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return respondError(c, ac.logger, "Invalid refresh token", err)
	}
	return c.JSON(fiber.Map{
		"token":     token,
		"expiresAt": exp,
	})
}

// Me returns the current session
func (ac *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "No authentication token",
		})
	}
	return c.JSON(claims.Session())
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "No authentication token",
		})
	}

	type PasswordInput struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	input := new(PasswordInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	err := ac.auth.ChangePassword(c.UserContext(), claims.UserID, input.CurrentPassword, input.NewPassword, input.ConfirmPassword)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Current password is incorrect",
		})
	}
	if err != nil {
		return respondError(c, ac.logger, "Failed to change password", err)
	}
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}
