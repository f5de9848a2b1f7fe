package domain

import (
	"context"
	"time"
)

// Profile represents a registered user. GeminiAPIKey is stored encrypted by
// the repository layer and is only plaintext on instances returned from
// AuthService.ResolveCaller.
type Profile struct {
	ID           string
	Name         string
	Email        string
	Interests    []string
	GeminiAPIKey string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProfile creates a new Profile instance
func NewProfile(name, email string, interests []string, geminiAPIKey string) *Profile {
	now := time.Now()
	return &Profile{
		Name:         name,
		Email:        email,
		Interests:    interests,
		GeminiAPIKey: geminiAPIKey,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates the profile
func (p *Profile) Validate() error {
	if p.Name == "" {
		return NewValidationError("name is required")
	}
	if p.Email == "" {
		return NewValidationError("email is required")
	}
	if len(p.Interests) == 0 {
		return NewValidationError("at least one interest is required")
	}
	if p.GeminiAPIKey == "" {
		return NewValidationError("gemini_api_key is required")
	}
	return nil
}

// ProfileRepository defines the interface for profile persistence. The store
// only needs to live for the process lifetime; implementations may be
// in-memory or backed by an external service.
type ProfileRepository interface {
	Save(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
}
