package handler

import (
	"unrot/internal/domain"
	"unrot/internal/dto"
	"unrot/internal/middleware"
	"unrot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration and profile lookup requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a profile and returns a bearer token.
// @Summary Register a profile
// @Description Registers name, email, interests and a Gemini API key; returns a bearer token. Idempotent on email.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Me returns the authenticated caller's profile.
// @Summary Get own profile
// @Tags auth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, ok := c.Locals(middleware.ProfileKey).(*domain.Profile)
	if !ok {
		return domain.NewUnauthorizedError("Invalid token")
	}
	return c.JSON(dto.ProfileResponse{
		Name:      profile.Name,
		Email:     profile.Email,
		Interests: profile.Interests,
	})
}
