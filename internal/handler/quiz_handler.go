package handler

import (
	"unrot/internal/domain"
	"unrot/internal/middleware"
	"unrot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz generation requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// GetQuiz generates a personalized quiz for the authenticated caller.
// @Summary Generate a quiz
// @Description Builds a quiz from recent news on the caller's interests, mixed with general knowledge questions.
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse
// @Router /quiz [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	profile, ok := c.Locals(middleware.ProfileKey).(*domain.Profile)
	if !ok {
		return domain.NewUnauthorizedError("Invalid token")
	}

	resp, err := h.service.GenerateQuiz(c.UserContext(), profile)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
