package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/plantops/skilltrack/pkg/apperrors"
	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
)

const blacklistKeyPrefix = "skilltrack:revoked:"

// Service issues, verifies and revokes bearer tokens. Revocation uses a
// Redis entry keyed by token ID that expires together with the token; a
// nil Redis client disables revocation tracking (local development).
type Service struct {
	users      repositories.UserRepository
	redis      *redis.Client
	signingKey []byte
	tokenTTL   time.Duration
	logger     *zap.Logger
}

// NewService creates a new auth Service.
func NewService(users repositories.UserRepository, redisClient *redis.Client, signingKey string, tokenTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		users:      users,
		redis:      redisClient,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		logger:     logger.Named("auth"),
	}
}

// Login verifies credentials and returns a signed token plus the user.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrUnauthorized
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrUnauthorized
	}

	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// Verify parses and validates a token, rejecting revoked ones.
func (s *Service) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}

	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		// Redis being down must not lock every user out.
		s.logger.Warn("Revocation check failed, accepting token", zap.Error(err))
	} else if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	return claims, nil
}

// Revoke blacklists a token until it would have expired anyway.
func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	if s.redis == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, blacklistKeyPrefix+claims.ID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *Service) isRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.redis == nil || tokenID == "" {
		return false, nil
	}
	n, err := s.redis.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
