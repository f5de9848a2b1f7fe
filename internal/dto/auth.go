package dto

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest is the body for POST /api/auth/register.
// @Description Request body for registering a new profile
type RegisterRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Interests    []string `json:"interests"`
	GeminiAPIKey string   `json:"gemini_api_key"`
}

// AuthResponse is returned after a successful registration.
type AuthResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileResponse describes the authenticated caller.
type ProfileResponse struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Interests []string `json:"interests"`
}

// AuthClaims defines the custom claims for JWT access tokens.
type AuthClaims struct {
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}
