package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/pkg/models"
)

const tokenIssuer = "closetmood"

var ErrInvalidAPIKey = errors.New("invalid API key")

type AuthService struct {
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	jwtSecret   []byte
	now         func() time.Time
}

func NewAuthService(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) *AuthService {
	return &AuthService{
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
		jwtSecret:   []byte(cfg.Auth.JWTSecret),
		now:         time.Now,
	}
}

// IssueToken exchanges a client API key for a session token scoped to one user.
func (s *AuthService) IssueToken(ctx context.Context, req *models.TokenRequest) (*models.TokenResponse, error) {
	tier, err := s.ValidateAPIKey(req.APIKey)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.GenerateToken(ctx, req.UserID, tier)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserTier:  tier,
	}, nil
}

func (s *AuthService) GenerateToken(ctx context.Context, userID uuid.UUID, userTier string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.Auth.TokenTTL)
	claims := &models.JWTClaims{
		UserID:   userID,
		UserTier: userTier,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	// Store token in Redis for session management
	err = s.redisClient.Set(ctx, sessionKey(userID), tokenString, s.config.Auth.TokenTTL).Err()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to store session in Redis")
		// Don't fail token generation if Redis is down
	}

	return tokenString, expiresAt, nil
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	exists, err := s.redisClient.Exists(ctx, sessionKey(claims.UserID)).Result()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to check session in Redis")
		// Continue validation even if Redis is down
	} else if exists == 0 {
		return nil, fmt.Errorf("session not found or expired")
	}

	return claims, nil
}

func (s *AuthService) RevokeToken(ctx context.Context, userID uuid.UUID) error {
	if err := s.redisClient.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// ValidateAPIKey returns the tier configured for apiKey under auth.api_keys.
func (s *AuthService) ValidateAPIKey(apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrInvalidAPIKey
	}
	tier, exists := s.config.Auth.APIKeys[apiKey]
	if !exists {
		return "", ErrInvalidAPIKey
	}
	if tier == "" {
		tier = "free"
	}
	return tier, nil
}

func sessionKey(userID uuid.UUID) string {
	return fmt.Sprintf("session:%s", userID.String())
}
