package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"unrot/internal/config"
	"unrot/internal/domain"
	"unrot/internal/dto"
	"unrot/internal/logger"
	"unrot/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrInvalidJWTToken  = errors.New("invalid jwt token")
	ErrEncryptionFailed = errors.New("failed to encrypt api key")
	ErrDecryptionFailed = errors.New("failed to decrypt api key")
)

// AuthService registers profiles and resolves bearer tokens back to them.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// ResolveCaller validates the token and returns the caller's profile with
	// a plaintext API key, or an UNAUTHORIZED domain error.
	ResolveCaller(ctx context.Context, token string) (*domain.Profile, error)
}

type authServiceImpl struct {
	profiles      domain.ProfileRepository
	cfg           *config.Config
	encryptionKey []byte // 32 bytes for AES-256
}

// NewAuthService creates a new instance of AuthService. The JWT secret doubles
// as the AES key for encrypting stored API keys, so it must be at least 32
// bytes long.
func NewAuthService(profiles domain.ProfileRepository, cfg *config.Config) (AuthService, error) {
	if len(cfg.JWT.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	return &authServiceImpl{
		profiles:      profiles,
		cfg:           cfg,
		encryptionKey: []byte(cfg.JWT.SecretKey[:32]),
	}, nil
}

// Register creates a profile and returns a bearer token for it. Registration
// is idempotent on email: an existing profile gets a fresh token, its stored
// record is left untouched.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	l := logger.Get()

	existing, err := s.profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up profile", err)
	}
	if existing != nil {
		l.Info("Registration for existing email, issuing new token", zap.String("email", req.Email))
		token, err := s.createToken(existing.ID)
		if err != nil {
			return nil, domain.NewInternalError("Failed to create token", err)
		}
		return &dto.AuthResponse{Token: token, Name: existing.Name, Email: existing.Email}, nil
	}

	profile := domain.NewProfile(req.Name, req.Email, req.Interests, req.GeminiAPIKey)
	if err := profile.Validate(); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}
	profile.ID = util.NewULID()

	encryptedKey, err := s.encryptAPIKey(req.GeminiAPIKey)
	if err != nil {
		return nil, domain.NewInternalError("Failed to encrypt api key", err)
	}
	profile.GeminiAPIKey = encryptedKey

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, domain.NewInternalError("Failed to save profile", err)
	}

	token, err := s.createToken(profile.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to create token", err)
	}

	l.Info("Registered new profile",
		zap.String("profile_id", profile.ID),
		zap.String("email", profile.Email),
		zap.Strings("interests", profile.Interests))

	return &dto.AuthResponse{Token: token, Name: profile.Name, Email: profile.Email}, nil
}

func (s *authServiceImpl) ResolveCaller(ctx context.Context, token string) (*domain.Profile, error) {
	claims, err := s.validateToken(token)
	if err != nil {
		return nil, domain.NewUnauthorizedError("Invalid token")
	}

	profile, err := s.profiles.GetByID(ctx, claims.ProfileID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up profile", err)
	}
	if profile == nil {
		return nil, domain.NewUnauthorizedError("Invalid token")
	}

	apiKey, err := s.decryptAPIKey(profile.GeminiAPIKey)
	if err != nil {
		logger.Get().Error("Failed to decrypt stored api key", zap.String("profile_id", profile.ID), zap.Error(err))
		return nil, domain.NewInternalError("Failed to decrypt api key", err)
	}
	profile.GeminiAPIKey = apiKey
	return profile, nil
}

func (s *authServiceImpl) createToken(profileID string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

func (s *authServiceImpl) validateToken(tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}
	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.ProfileID == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

// encryptAPIKey seals the caller's Gemini key with AES-256-GCM before it is
// handed to the repository.
func (s *authServiceImpl) encryptAPIKey(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *authServiceImpl) decryptAPIKey(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	if len(data) < gcm.NonceSize() {
		return "", ErrDecryptionFailed
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}
