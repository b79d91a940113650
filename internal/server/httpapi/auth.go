package httpapi

import (
	"encoding/json"
	"net/mail"

	"github.com/gofiber/fiber/v2"
)

const minPasswordLen = 6

type registerRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Profile  json.RawMessage `json:"profile"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body"})
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}
	if len(req.Password) < minPasswordLen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password too short"})
	}

	user, err := s.userService.Register(c.Context(), req.Email, req.Password, req.Profile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"uid": user.ID, "email": user.Email})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body"})
	}

	user, pair, err := s.userService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return s.serviceError(c, err)
	}

	return c.JSON(tokenResponse{
		UID:          user.ID,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body"})
	}

	pair, err := s.userService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return s.serviceError(c, err)
	}

	return c.JSON(tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body"})
	}

	if err := s.userService.Logout(c.Context(), req.RefreshToken); err != nil {
		return s.serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "logged out"})
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body"})
	}

	if len(req.NewPassword) < minPasswordLen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password too short"})
	}

	if err := s.userService.ChangePassword(c.Context(), userID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return s.serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "password changed"})
}

func (s *Server) updateEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to parse request body"})
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}

	if err := s.userService.UpdateEmail(c.Context(), userID(c), req.Email); err != nil {
		return s.serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "email updated"})
}
