package dto

import "unrot/internal/domain"

// QuizResponse is the body for GET /api/quiz.
// @Description Generated quiz cards
type QuizResponse struct {
	Cards []domain.QuizCard `json:"cards"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
