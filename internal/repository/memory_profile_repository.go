package repository

import (
	"context"
	"strings"
	"sync"

	"unrot/internal/domain"
)

// memoryProfileRepository is the default process-lifetime profile store.
// Profiles are indexed by ID and by lower-cased email.
type memoryProfileRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Profile
	byEmail map[string]*domain.Profile
}

// NewMemoryProfileRepository creates an empty in-memory profile store.
func NewMemoryProfileRepository() domain.ProfileRepository {
	return &memoryProfileRepository{
		byID:    make(map[string]*domain.Profile),
		byEmail: make(map[string]*domain.Profile),
	}
}

func (r *memoryProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *profile
	r.byID[profile.ID] = &stored
	r.byEmail[strings.ToLower(profile.Email)] = &stored
	return nil
}

func (r *memoryProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (r *memoryProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}
