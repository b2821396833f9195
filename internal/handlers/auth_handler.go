package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-coach/internal/middleware"
	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	candidate, err := h.authService.Register(&req)
	if err != nil {
		return toAPIError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Registration successful",
		"candidate": candidate,
	})
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(resp)
}

// HandleRefresh trades a still-valid token for one with a new expiry.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	resp, err := h.authService.Refresh(candidateID)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	var req models.VerifyTokenRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	candidateID, err := h.authService.ParseToken(req.Token)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(fiber.Map{
		"valid":        true,
		"candidate_id": candidateID.String(),
	})
}
