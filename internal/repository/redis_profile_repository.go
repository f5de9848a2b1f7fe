package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"unrot/internal/cache"
	"unrot/internal/domain"

	"github.com/redis/go-redis/v9"
)

const profileService = "profile"

// redisProfileRepository stores profiles in Redis: the profile document lives
// under its ID key, with a secondary email key pointing at the ID.
type redisProfileRepository struct {
	client *redis.Client
}

// NewRedisProfileRepository creates a Redis-backed profile store.
func NewRedisProfileRepository(client *redis.Client) domain.ProfileRepository {
	return &redisProfileRepository{client: client}
}

func (r *redisProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	idKey := cache.GenerateKey(profileService, "id", profile.ID)
	emailKey := cache.GenerateKey(profileService, "email", strings.ToLower(profile.Email))

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, idKey, data, 0)
	pipe.Set(ctx, emailKey, profile.ID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *redisProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	data, err := r.client.Get(ctx, cache.GenerateKey(profileService, "id", id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by id: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (r *redisProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	id, err := r.client.Get(ctx, cache.GenerateKey(profileService, "email", strings.ToLower(email))).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return r.GetByID(ctx, id)
}
